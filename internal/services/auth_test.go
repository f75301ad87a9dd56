package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour)

	hashed, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hashed)

	assert.True(t, auth.VerifyPassword(hashed, "s3cret-pass"))
	assert.False(t, auth.VerifyPassword(hashed, "wrong-pass"))
}

func TestHashPasswordEmpty(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour)

	_, err := auth.HashPassword("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour)

	token, err := auth.IssueToken("hr@example.com", "hr")
	require.NoError(t, err)

	identity, err := auth.CurrentUser(token)
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", identity.Email)
	assert.Equal(t, "hr", identity.Role)
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", time.Hour)
	verifier := NewAuthService("secret-b", time.Hour)

	token, err := issuer.IssueToken("user@example.com", "student")
	require.NoError(t, err)

	_, err = verifier.CurrentUser(token)
	assert.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	auth := NewAuthService("test-secret", -time.Minute)

	token, err := auth.IssueToken("user@example.com", "student")
	require.NoError(t, err)

	_, err = auth.CurrentUser(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour)

	_, err := auth.CurrentUser("not-a-token")
	assert.Error(t, err)

	_, err = auth.IssueToken("", "student")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
