package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 30*24*time.Hour)
	token, err := issuer.Issue("64b7f0c2a1b2c3d4e5f60718", true)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), issuer.ExpiresAt(claims), time.Minute)
}

func TestTokenRejections(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue("u1", false)
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Parse(token)
	assert.Error(t, err, "wrong secret")

	_, err = issuer.Parse(token + "x")
	assert.Error(t, err, "tampered signature")

	_, err = issuer.Parse("not-a-token")
	assert.Error(t, err)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("u1", false)
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.Error(t, err, "expired")
}

func TestPasswordHashing(t *testing.T) {
	h1, err := HashPassword("correct horse")
	require.NoError(t, err)
	h2, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", h1)
	assert.NotEqual(t, h1, h2, "each hash has its own salt")
	assert.True(t, CheckPassword(h1, "correct horse"))
	assert.False(t, CheckPassword(h1, "wrong horse"))
}
