package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4) // min cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestHashPasswordCostFallback(t *testing.T) {
	// below bcrypt.MinCost the hasher must upgrade, not weaken
	hash, err := HashPassword("s3cret", 0)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
}

func TestHashPasswordDistinct(t *testing.T) {
	h1, err := HashPassword("same", 4)
	require.NoError(t, err)
	h2, err := HashPassword("same", 4)
	require.NoError(t, err)
	// bcrypt salts per call
	assert.NotEqual(t, h1, h2)
}
