package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_MintAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Mint("64f1c2d4e5a6b7c8d9e0f1a2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "64f1c2d4e5a6b7c8d9e0f1a2", userID)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Mint("64f1c2d4e5a6b7c8d9e0f1a2")
	require.NoError(t, err)

	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	minter := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := minter.Mint("64f1c2d4e5a6b7c8d9e0f1a2")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_MalformedToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := m.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
