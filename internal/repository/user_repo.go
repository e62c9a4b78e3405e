package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"steamx-api/internal/domain"
)

// ErrDuplicate señala una violación de índice único (email o google_id).
var ErrDuplicate = errors.New("duplicate key")

const pgUniqueViolation = "23505"

func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (domain.User, error)
	UpdateProfile(ctx context.Context, id, fullName, email string, updatedAt time.Time) error
	LinkGoogle(ctx context.Context, id, googleID, picture string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, COALESCE(password_hash, ''), full_name, is_verified,
	subscription_tier, COALESCE(google_id, ''), COALESCE(profile_picture, ''),
	auth_provider, created_at, updated_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, full_name, is_verified,
			subscription_tier, google_id, profile_picture, auth_provider,
			created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.IsVerified,
		user.SubscriptionTier,
		user.GoogleID,
		user.ProfilePicture,
		user.AuthProvider,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return translateUnique(err)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *PgUserRepository) GetByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	return r.getBy(ctx, `WHERE google_id = $1`, googleID)
}

func (r *PgUserRepository) getBy(ctx context.Context, where string, arg any) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + where
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.IsVerified,
		&u.SubscriptionTier,
		&u.GoogleID,
		&u.ProfilePicture,
		&u.AuthProvider,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id, fullName, email string, updatedAt time.Time) error {
	const query = `
		UPDATE users
		SET full_name = $2, email = $3, updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, fullName, email, updatedAt)
	if err != nil {
		return translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// LinkGoogle asocia una identidad de Google a una cuenta existente en una
// sola mutación atómica; conserva password_hash para permitir login dual.
func (r *PgUserRepository) LinkGoogle(ctx context.Context, id, googleID, picture string, updatedAt time.Time) error {
	const query = `
		UPDATE users
		SET google_id = $2,
			profile_picture = NULLIF($3, ''),
			auth_provider = 'google',
			is_verified = TRUE,
			updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, googleID, picture, updatedAt)
	if err != nil {
		return translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
