package entity

import "time"

// Session is an active login. The record itself lives in redis under a TTL
// equal to ExpiresAt, so an expired session is simply absent.
type Session struct {
	ID        string
	UserID    string
	Token     string
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account links a user to an authentication provider. The only provider
// shipped today is email/password ("credential"); PasswordHash is set for it.
type Account struct {
	ID           string
	UserID       string
	ProviderID   string
	AccountID    string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProviderCredential is the providerId of the built-in email/password provider.
const ProviderCredential = "credential"
