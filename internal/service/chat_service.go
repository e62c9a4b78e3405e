package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"steamx-api/internal/domain"
	"steamx-api/internal/rag"
	"steamx-api/internal/repository"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionTitleMax = 50

// ChatService administra sesiones de chat y delega las respuestas en la API
// RAG externa.
type ChatService struct {
	logger   *zap.Logger
	sessions repository.ChatSessionRepository
	messages repository.MessageRepository
	rag      rag.Client
}

func NewChatService(logger *zap.Logger, sessions repository.ChatSessionRepository, messages repository.MessageRepository, ragClient rag.Client) *ChatService {
	return &ChatService{
		logger:   logger,
		sessions: sessions,
		messages: messages,
		rag:      ragClient,
	}
}

func (s *ChatService) CreateSession(ctx context.Context, userID string) (domain.ChatSession, error) {
	now := time.Now().UTC()
	session := domain.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     domain.DefaultSessionTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.ChatSession{}, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// GetSession devuelve la sesión y sus mensajes en orden cronológico. Una
// sesión ajena es indistinguible de una inexistente.
func (s *ChatService) GetSession(ctx context.Context, userID, sessionID string) (domain.ChatSession, []domain.ChatMessage, error) {
	session, err := s.sessions.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatSession{}, nil, ErrSessionNotFound
		}
		return domain.ChatSession{}, nil, err
	}
	messages, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return domain.ChatSession{}, nil, err
	}
	return session, messages, nil
}

type SendMessageResult struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// SendMessage persiste la pregunta, consulta la API RAG con el historial como
// contexto y persiste la respuesta. Si la API falla, el mensaje del usuario
// queda guardado pero no se fabrica respuesta.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID, question string) (SendMessageResult, error) {
	session, err := s.sessions.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SendMessageResult{}, ErrSessionNotFound
		}
		return SendMessageResult{}, err
	}

	now := time.Now().UTC()
	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: now,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return SendMessageResult{}, err
	}

	history, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return SendMessageResult{}, err
	}
	ragHistory := make([]rag.Message, 0, len(history))
	for _, msg := range history {
		ragHistory = append(ragHistory, rag.Message{Role: msg.Role, Content: msg.Content})
	}

	answer, err := s.rag.Ask(ctx, question, ragHistory)
	if err != nil {
		s.logger.Error("rag ask failed", zap.Error(err), zap.String("session_id", sessionID))
		return SendMessageResult{}, err
	}

	assistantMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return SendMessageResult{}, err
	}

	title := ""
	if session.Title == domain.DefaultSessionTitle && question != "" {
		title = truncateTitle(question)
	}
	if err := s.sessions.Touch(ctx, sessionID, title, time.Now().UTC()); err != nil {
		s.logger.Warn("session touch failed", zap.Error(err), zap.String("session_id", sessionID))
	}

	return SendMessageResult{
		Question:  question,
		Answer:    answer,
		SessionID: sessionID,
	}, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	err := s.sessions.Delete(ctx, sessionID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSessionNotFound
	}
	return err
}

func truncateTitle(question string) string {
	runes := []rune(question)
	if len(runes) <= sessionTitleMax {
		return question
	}
	return string(runes[:sessionTitleMax]) + "..."
}
