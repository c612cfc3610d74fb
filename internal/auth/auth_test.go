// internal/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	Init(time.Hour)

	token, err := CreateSessionToken("player-123")
	require.NoError(t, err)

	playerID, err := AuthenticateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "player-123", playerID)

	_, err = AuthenticateSessionToken(token + "tampered")
	assert.Error(t, err)
	_, err = AuthenticateSessionToken("not-a-jwt")
	assert.Error(t, err)
}

func TestSessionTokenFromOldKeyIsRejected(t *testing.T) {
	Init(time.Hour)
	token, err := CreateSessionToken("player-123")
	require.NoError(t, err)

	// A restart generates a new key pair.
	Init(time.Hour)
	_, err = AuthenticateSessionToken(token)
	assert.Error(t, err)
}

func TestRecoveryTokenHashing(t *testing.T) {
	token, err := NewRecoveryToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	hash, err := CreateHash(token, Params)
	require.NoError(t, err)

	ok, err := CompareTokenAndHash(token, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CompareTokenAndHash("wrong-token", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CompareTokenAndHash(token, "garbage")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
