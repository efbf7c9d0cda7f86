package auth

import (
	"testing"
	"time"

	"gigflow/internal/models"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("long-enough-password")
	require.NoError(t, err)
	require.NotEqual(t, "long-enough-password", hash)

	require.True(t, CheckPassword(hash, "long-enough-password"))
	require.False(t, CheckPassword(hash, "wrong-password"))
	require.False(t, CheckPassword("not-a-hash", "long-enough-password"))

	_, err = HashPassword("short")
	require.ErrorIs(t, err, models.ErrWeakPassword)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	userId, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userId)
}

func TestJWTValidateFailures(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	_, err := m.Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	// token signed with a different secret
	other := NewJWTManager("other-secret", time.Hour)
	token, err := other.Generate("user-1")
	require.NoError(t, err)
	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	// expired token
	expired := NewJWTManager("test-secret", -time.Minute)
	token, err = expired.Generate("user-1")
	require.NoError(t, err)
	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	// a token without a subject user is rejected even if well signed
	token, err = m.Generate("")
	require.NoError(t, err)
	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
