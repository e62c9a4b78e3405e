package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"steamx-api/internal/domain"
	"steamx-api/internal/repository"
)

// FeedbackHandler mantiene dependencias para endpoints de feedback.
type FeedbackHandler struct {
	logger    *zap.Logger
	feedbacks repository.FeedbackRepository
}

func NewFeedbackHandler(logger *zap.Logger, feedbacks repository.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{
		logger:    logger,
		feedbacks: feedbacks,
	}
}

// SubmitFeedback maneja POST /api/feedback.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	feedback := domain.Feedback{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.feedbacks.Create(c.Request.Context(), feedback); err != nil {
		h.logger.Error("create feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted successfully"})
}
