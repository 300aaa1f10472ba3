package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("my-secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "my-secret-password", hash)

	// Hashing the same password twice produces different hashes.
	hash2, err := HashPassword("my-secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "correct-password"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-hash", "correct-password"))
}

func TestHashPasswordAtCost(t *testing.T) {
	hash, err := HashPasswordAtCost("secret", DefaultHashCost-4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "secret"))

	// A cost below the bcrypt floor falls back to the default.
	hash, err = HashPasswordAtCost("secret", 1)
	require.NoError(t, err)
	assert.False(t, NeedsRehash(hash))
}

func TestNeedsRehash(t *testing.T) {
	weak, err := HashPasswordAtCost("secret", DefaultHashCost-4)
	require.NoError(t, err)
	assert.True(t, NeedsRehash(weak))

	current, err := HashPassword("secret")
	require.NoError(t, err)
	assert.False(t, NeedsRehash(current))

	// Garbage input is not a rehash candidate.
	assert.False(t, NeedsRehash("not-a-hash"))
}
