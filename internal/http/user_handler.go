package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steamx-api/internal/service"
)

// UserHandler mantiene dependencias para endpoints de perfil y cuenta.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// GetProfile maneja GET /api/user/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userServ.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile maneja PUT /api/user/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.logger.Error("update profile failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUsage maneja GET /api/user/usage.
func (h *UserHandler) GetUsage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.userServ.Usage(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("usage stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load usage"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteAccount maneja DELETE /api/user/account.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userServ.DeleteAccount(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("delete account failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted successfully",
		"email":   user.Email,
	})
}
