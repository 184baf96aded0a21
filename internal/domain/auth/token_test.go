package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	at := NewAuthToken("test-secret").WithTTL(time.Minute)

	token, err := at.GenerateToken("client-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ok, clientID, err := at.VerifyToken(token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "client-42", clientID)
}

func TestTokenWrongSecret(t *testing.T) {
	at := NewAuthToken("secret-a")
	token, err := at.GenerateToken("client")
	require.NoError(t, err)

	other := NewAuthToken("secret-b")
	ok, _, err := other.VerifyToken(token)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	at := NewAuthToken("secret").WithTTL(time.Nanosecond)
	token, err := at.GenerateToken("client")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	ok, _, err := at.VerifyToken(token)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestTokenEmptySecret(t *testing.T) {
	at := NewAuthToken("")
	_, err := at.GenerateToken("client")
	assert.Error(t, err)
	_, _, err = at.VerifyToken("whatever")
	assert.Error(t, err)
}
