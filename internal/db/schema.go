package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Los índices únicos sobre email y google_id cierran la carrera
// check-then-insert del registro; los FK en cascada expresan el borrado de
// cuenta sin lógica de grafo de objetos.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		full_name TEXT NOT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		subscription_tier TEXT NOT NULL DEFAULT 'free',
		google_id TEXT UNIQUE,
		profile_picture TEXT,
		auth_provider TEXT NOT NULL DEFAULT 'local',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id UUID PRIMARY KEY,
		user_id UUID REFERENCES users(id) ON DELETE CASCADE,
		rating INTEGER NOT NULL,
		comment TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id)`,
}

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
