package domain

import "time"

// DefaultSessionTitle se asigna a sesiones recién creadas hasta el primer mensaje.
const DefaultSessionTitle = "New Conversation"

// Roles de mensajes dentro de una sesión.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}
