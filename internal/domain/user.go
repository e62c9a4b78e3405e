package domain

import "time"

// Proveedores de autenticación soportados.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FullName         string    `json:"full_name"`
	IsVerified       bool      `json:"is_verified"`
	SubscriptionTier string    `json:"subscription_tier"`
	GoogleID         string    `json:"-"`
	ProfilePicture   string    `json:"profile_picture,omitempty"`
	AuthProvider     string    `json:"auth_provider"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasPassword indica si la cuenta admite login local.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
