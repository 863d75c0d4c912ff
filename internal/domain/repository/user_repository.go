package repository

import (
	"context"
	"errors"

	"github.com/a3lachi/servauth/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when an insert or update hits the unique
	// constraint on users.email.
	ErrEmailTaken = errors.New("email already registered")
)

// ProfileUpdate carries the optional fields of a profile mutation.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	Name      *string
	Email     *string
	AvatarURL *string
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts the user together with its credential account row in a
	// single transaction. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, u *entity.User, passwordHash string) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetCredential returns the bcrypt hash stored on the user's
	// credential account.
	GetCredential(ctx context.Context, userID string) (string, error)
	// UpdateProfile applies only the provided fields, stamps updated_at and
	// returns the re-read row.
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetVerified(ctx context.Context, id string) error
	// Delete removes the user row; accounts cascade at the storage layer.
	Delete(ctx context.Context, id string) error
}
