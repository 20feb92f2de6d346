package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	t.Parallel()

	token, fingerprint, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, token, 64) // 32 random bytes, hex encoded
	assert.NotEqual(t, token, fingerprint)
	assert.Equal(t, fingerprint, ResetFingerprint(token))
}

func TestNewResetToken_Unique(t *testing.T) {
	t.Parallel()

	t1, f1, err := NewResetToken()
	require.NoError(t, err)
	t2, f2, err := NewResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.NotEqual(t, f1, f2)
}

func TestResetFingerprint_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ResetFingerprint("candidate"), ResetFingerprint("candidate"))
	assert.NotEqual(t, ResetFingerprint("candidate"), ResetFingerprint("other"))
}
