package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"steamx-api/internal/domain"
	"steamx-api/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService cubre perfil, estadísticas de uso y borrado de cuenta.
type UserService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	sessions repository.ChatSessionRepository
	messages repository.MessageRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, sessions repository.ChatSessionRepository, messages repository.MessageRepository) *UserService {
	return &UserService{
		logger:   logger,
		users:    users,
		sessions: sessions,
		messages: messages,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	FullName string
	Email    string
}

// UpdateProfile aplica los campos no vacíos. Un email ya tomado por otra
// cuenta falla con ErrDuplicateEmail.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if name := strings.TrimSpace(input.FullName); name != "" {
		user.FullName = name
	}
	if email := normalizeEmail(input.Email); email != "" && email != user.Email {
		existing, err := s.users.GetByEmail(ctx, email)
		if err == nil && existing.ID != userID {
			return domain.User{}, ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
		user.Email = email
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateProfile(ctx, user.ID, user.FullName, user.Email, user.UpdatedAt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrDuplicateEmail
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

type UsageStats struct {
	TotalSessions    int64  `json:"total_sessions"`
	TotalMessages    int64  `json:"total_messages"`
	SubscriptionTier string `json:"subscription_tier"`
}

func (s *UserService) Usage(ctx context.Context, userID string) (UsageStats, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	totalSessions, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	totalMessages, err := s.messages.CountByUser(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	return UsageStats{
		TotalSessions:    totalSessions,
		TotalMessages:    totalMessages,
		SubscriptionTier: user.SubscriptionTier,
	}, nil
}

// DeleteAccount elimina el usuario; sesiones, mensajes y feedback caen por
// los FK en cascada.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	s.logger.Info("account deleted", zap.String("user_id", userID))
	return user, nil
}
