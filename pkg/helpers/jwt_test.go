package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseSessionToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.GenerateSessionToken("user-1", "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, _, err := m.GenerateSessionToken("user-1", "sess-1")
	require.NoError(t, err)

	_, err = other.ParseSessionToken(token)
	assert.Error(t, err)
}

func TestParseSessionTokenExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, _, err := m.GenerateSessionToken("user-1", "sess-1")
	require.NoError(t, err)

	_, err = m.ParseSessionToken(token)
	assert.Error(t, err)
}

func TestParseSessionTokenGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	_, err := m.ParseSessionToken("not-a-token")
	assert.Error(t, err)
}
