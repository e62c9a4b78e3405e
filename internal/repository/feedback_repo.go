package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"steamx-api/internal/domain"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) error
	ListByUser(ctx context.Context, userID string) ([]domain.Feedback, error)
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) error {
	const query = `
		INSERT INTO feedbacks (id, user_id, rating, comment, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, NULLIF($4, ''), $5)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.UserID,
		feedback.Rating,
		feedback.Comment,
		feedback.CreatedAt,
	)
	return err
}

func (r *PgFeedbackRepository) ListByUser(ctx context.Context, userID string) ([]domain.Feedback, error) {
	const query = `
		SELECT id, COALESCE(user_id::text, ''), rating, COALESCE(comment, ''), created_at
		FROM feedbacks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
