package application

import (
	"context"
	"errors"

	"github.com/a3lachi/servauth/internal/domain/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNoSession          = errors.New("no active session")
)

// SessionMeta is informational request context recorded on the session.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

// Delegate is the narrow contract the HTTP layer programs against for
// everything credential- or session-shaped. One configured implementation
// is built at process start and injected into every handler; swapping the
// auth backend means swapping this value.
type Delegate interface {
	SignUp(ctx context.Context, email, password, name string) (*entity.User, error)
	// SignIn returns the user and a fresh session whose Token goes into the
	// session cookie. Any failure is ErrInvalidCredentials; callers must not
	// learn whether the email exists.
	SignIn(ctx context.Context, email, password string, meta SessionMeta) (*entity.User, *entity.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	// GetSession resolves a session token to its user and session, or
	// ErrNoSession when missing, expired or revoked.
	GetSession(ctx context.Context, token string) (*entity.User, *entity.Session, error)
	// RefreshSession is GetSession plus a slide of the expiry window.
	RefreshSession(ctx context.Context, token string) (*entity.User, *entity.Session, error)
	// RequestPasswordReset never reports whether the email is registered;
	// for a known account it returns the reset link, otherwise "".
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	// VerifyInit issues an email-verification link for the user, or
	// alreadyVerified=true when there is nothing to do.
	VerifyInit(ctx context.Context, userID string) (link string, alreadyVerified bool, err error)
	VerifyConfirm(ctx context.Context, token string) error
}
