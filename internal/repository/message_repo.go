package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"steamx-api/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.ChatMessage) error {
	const query = `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SessionID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	const query = `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *PgMessageRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE s.user_id = $1
	`
	var count int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}
