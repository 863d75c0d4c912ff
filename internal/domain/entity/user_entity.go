package entity

import (
	"time"
)

// User is the aggregate root for the auth domain.
// Credentials are never stored here; they live on the linked Account row
// and are only handled by the auth delegate.
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
