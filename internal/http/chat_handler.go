package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steamx-api/internal/domain"
	"steamx-api/internal/rag"
	"steamx-api/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de sesiones y mensajes.
type ChatHandler struct {
	logger   *zap.Logger
	chatServ *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chatServ *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chatServ: chatServ,
	}
}

// CreateSession maneja POST /api/chat/sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, err := h.chatServ.CreateSession(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("create session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions maneja GET /api/chat/sessions.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.chatServ.ListSessions(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}
	if sessions == nil {
		sessions = []domain.ChatSession{}
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession maneja GET /api/chat/sessions/:id.
func (h *ChatHandler) GetSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, messages, err := h.chatServ.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.logger.Error("get session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  session,
		"messages": messages,
	})
}

// SendMessage maneja POST /api/chat/message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		Question  string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.chatServ.SendMessage(c.Request.Context(), userID, req.SessionID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, rag.ErrTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "RAG API request timed out"})
		case errors.Is(err, rag.ErrUpstream):
			c.JSON(http.StatusBadGateway, gin.H{"error": "RAG API error"})
		default:
			h.logger.Error("send message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteSession maneja DELETE /api/chat/sessions/:id.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.chatServ.DeleteSession(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.logger.Error("delete session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}
