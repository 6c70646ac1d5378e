package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256HashAndVerify(t *testing.T) {
	h := NewHMACSHA256("test-secret")

	digest, err := h.Hash("123456")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, h.Verify(string(digest), "123456"))
	assert.False(t, h.Verify(string(digest), "123457"))
	assert.False(t, h.Verify(string(digest), ""))
}

func TestHMACSHA256Deterministic(t *testing.T) {
	h := NewHMACSHA256("test-secret")

	first, err := h.Hash("123456")
	require.NoError(t, err)
	second, err := h.Hash("123456")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHMACSHA256KeyedDigestsDiffer(t *testing.T) {
	a := NewHMACSHA256("secret-a")
	b := NewHMACSHA256("secret-b")

	digestA, err := a.Hash("123456")
	require.NoError(t, err)
	digestB, err := b.Hash("123456")
	require.NoError(t, err)

	assert.NotEqual(t, digestA, digestB)
	assert.False(t, b.Verify(string(digestA), "123456"))
}
