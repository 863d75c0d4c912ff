package handlers

import (
	"time"

	"github.com/a3lachi/servauth/internal/domain/entity"
)

// UserPayload is the public shape of a user. Field set is stable;
// timestamps are RFC3339 in UTC.
type UserPayload struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// SessionPayload is the public shape of a session. The token itself only
// travels in the cookie.
type SessionPayload struct {
	ID        string `json:"id"`
	ExpiresAt string `json:"expiresAt"`
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func MapUser(u *entity.User) UserPayload {
	return UserPayload{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Name:          u.Name,
		Image:         u.AvatarURL,
		CreatedAt:     fmtTime(u.CreatedAt),
		UpdatedAt:     fmtTime(u.UpdatedAt),
	}
}

func MapSession(s *entity.Session) SessionPayload {
	return SessionPayload{
		ID:        s.ID,
		ExpiresAt: fmtTime(s.ExpiresAt),
		IPAddress: s.IPAddress,
		UserAgent: s.UserAgent,
		CreatedAt: fmtTime(s.CreatedAt),
		UpdatedAt: fmtTime(s.UpdatedAt),
	}
}
