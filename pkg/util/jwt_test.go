package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tokens, err := GenerateTokenPair(1, 10, "ada", "admin", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
}

func TestValidateToken(t *testing.T) {
	tokens, err := GenerateTokenPair(123, 7, "chidi", "sales", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(123), claims.UserID)
	assert.Equal(t, uint(7), claims.BusinessID)
	assert.Equal(t, "chidi", claims.Username)
	assert.Equal(t, "sales", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	tokens, err := GenerateTokenPair(1, 1, "ada", "admin", testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(tokens.AccessToken, "wrong-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	tokens, err := GenerateTokenPair(1, 1, "ada", "admin", testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("invalid.token.format", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
