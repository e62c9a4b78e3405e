package domain

import "time"

type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
