package application

import (
	"context"
	"time"

	"github.com/a3lachi/servauth/internal/domain/entity"
)

// SessionStore persists session records. Implementations must drop the
// record once ExpiresAt passes (the redis implementation leans on TTLs),
// so Get returning nil means "no valid session".
type SessionStore interface {
	Create(ctx context.Context, s *entity.Session) error
	// Get returns (nil, nil) when the session is absent or expired.
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Refresh swaps in a rotated token and slides the expiry of an
	// existing session.
	Refresh(ctx context.Context, id, token string, expiresAt, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// TokenStore holds short-lived verification values (password reset,
// email verification) keyed by opaque token. Single-use: callers delete
// on first valid consumption.
type TokenStore interface {
	Put(ctx context.Context, key, userID string, ttl time.Duration) error
	// Get returns "" when the token is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}
