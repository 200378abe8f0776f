package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	maker := NewTokenMaker("test-secret", 15*time.Minute)

	token, err := maker.GenerateToken(42, "alice@example.com")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	maker := NewTokenMaker("test-secret", 15*time.Minute)
	other := NewTokenMaker("other-secret", 15*time.Minute)

	token, err := maker.GenerateToken(42, "alice@example.com")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	maker := NewTokenMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken(42, "alice@example.com")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", hash)

	assert.NoError(t, CheckPassword(hash, "supersecret"))
	assert.Error(t, CheckPassword(hash, "wrongpass"))
}
