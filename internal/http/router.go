package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steamx-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	userH *UserHandler,
	chatH *ChatHandler,
	feedbackH *FeedbackHandler,
	frontendURL string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, CORS y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(frontendURL))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "STEAMX API",
			"version": "1.0.0",
			"status":  "running",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/google", authH.GoogleAuth)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	authenticated := api.Group("")
	authenticated.Use(JWTAuthMiddleware(jwtSvc))

	user := authenticated.Group("/user")
	user.GET("/profile", userH.GetProfile)
	user.PUT("/profile", userH.UpdateProfile)
	user.GET("/usage", userH.GetUsage)
	user.DELETE("/account", userH.DeleteAccount)

	chat := authenticated.Group("/chat")
	chat.POST("/sessions", chatH.CreateSession)
	chat.GET("/sessions", chatH.ListSessions)
	chat.GET("/sessions/:id", chatH.GetSession)
	chat.DELETE("/sessions/:id", chatH.DeleteSession)
	chat.POST("/message", chatH.SendMessage)

	authenticated.POST("/feedback", feedbackH.SubmitFeedback)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware permite llamadas desde el frontend configurado.
func corsMiddleware(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (origin == frontendURL || origin == "http://localhost:4200") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
