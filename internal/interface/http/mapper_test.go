package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3lachi/servauth/internal/domain/entity"
)

func TestMapUserFormatsTimestampsInUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	u := &entity.User{
		ID:        "user-1",
		Email:     "alice@example.com",
		Name:      "Alice",
		CreatedAt: time.Date(2025, 6, 1, 13, 30, 0, 0, loc),
		UpdatedAt: time.Date(2025, 6, 1, 13, 30, 0, 0, loc),
	}

	p := MapUser(u)
	assert.Equal(t, "2025-06-01T12:30:00Z", p.CreatedAt)
	assert.Equal(t, "2025-06-01T12:30:00Z", p.UpdatedAt)
}

func TestMapUserOmitsEmptyImage(t *testing.T) {
	b, err := json.Marshal(MapUser(&entity.User{ID: "user-1", Email: "a@b.co", Name: "A"}))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.NotContains(t, out, "image")

	b, err = json.Marshal(MapUser(&entity.User{ID: "user-1", AvatarURL: "https://cdn.example.com/a.png"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "https://cdn.example.com/a.png", out["image"])
}

func TestMapSessionNeverExposesToken(t *testing.T) {
	s := &entity.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Token:     "super-secret",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	b, err := json.Marshal(MapSession(s))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "super-secret")
}
