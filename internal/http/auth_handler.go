package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steamx-api/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticación.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
	}
}

// Register maneja POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.authServ.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, pair, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// GoogleAuth maneja POST /api/auth/google.
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid google auth request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, pair, err := h.authServ.AuthenticateGoogle(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrGoogleTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token"})
			return
		}
		h.logger.Error("google auth failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete google auth"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// Refresh maneja POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	access, err := h.authServ.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

// Logout maneja POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// El logout es best-effort: sin refresh token sigue siendo client-side.
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken != "" {
		_ = h.authServ.Logout(req.RefreshToken)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
