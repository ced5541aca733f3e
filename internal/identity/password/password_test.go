package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(nil)

	encoded, err := h.Hash("correct-horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	require.NoError(t, h.Verify("correct-horse", encoded))
}

func TestVerifyMismatch(t *testing.T) {
	h := NewHasher(nil)

	encoded, err := h.Hash("correct-horse")
	require.NoError(t, err)

	err = h.Verify("wrong-password", encoded)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(nil)

	first, err := h.Hash("correct-horse")
	require.NoError(t, err)
	second, err := h.Hash("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ by salt")
}

func TestVerifyRejectsMalformedEncoding(t *testing.T) {
	h := NewHasher(nil)

	err := h.Verify("anything", "not-an-argon2-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
