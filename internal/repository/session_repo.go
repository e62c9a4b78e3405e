package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"steamx-api/internal/domain"
)

// ChatSessionRepository define el contrato de persistencia para sesiones de chat.
// Las lecturas y el borrado están acotados por dueño (user_id).
type ChatSessionRepository interface {
	Create(ctx context.Context, session domain.ChatSession) error
	GetByID(ctx context.Context, id, userID string) (domain.ChatSession, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ChatSession, error)
	Touch(ctx context.Context, id, title string, updatedAt time.Time) error
	Delete(ctx context.Context, id, userID string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type PgChatSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatSessionRepository(pool *pgxpool.Pool) *PgChatSessionRepository {
	return &PgChatSessionRepository{pool: pool}
}

func (r *PgChatSessionRepository) Create(ctx context.Context, session domain.ChatSession) error {
	const query = `
		INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *PgChatSessionRepository) GetByID(ctx context.Context, id, userID string) (domain.ChatSession, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1 AND user_id = $2
	`
	var s domain.ChatSession
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Title,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return domain.ChatSession{}, err
	}
	return s, nil
}

func (r *PgChatSessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		var s domain.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Touch actualiza updated_at y, si title no es vacío, el título de la sesión.
func (r *PgChatSessionRepository) Touch(ctx context.Context, id, title string, updatedAt time.Time) error {
	const query = `
		UPDATE chat_sessions
		SET title = CASE WHEN $2 <> '' THEN $2 ELSE title END,
			updated_at = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, title, updatedAt)
	return err
}

func (r *PgChatSessionRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgChatSessionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_sessions WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
