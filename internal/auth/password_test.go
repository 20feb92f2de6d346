package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "s3cret!")

	assert.True(t, CheckPassword("s3cret!", hash))
	assert.False(t, CheckPassword("other-password", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password", 4)
	require.NoError(t, err)
	h2, err := HashPassword("same-password", 4)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("same-password", h1))
	assert.True(t, CheckPassword("same-password", h2))
}

func TestHashPassword_CostOutOfRange(t *testing.T) {
	t.Parallel()

	// out-of-range cost falls back to the library default
	hash, err := HashPassword("s3cret!", 1000)
	require.NoError(t, err)
	assert.True(t, CheckPassword("s3cret!", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("whatever", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("whatever", ""))
}
