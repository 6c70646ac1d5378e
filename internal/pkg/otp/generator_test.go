package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureGeneratorLength(t *testing.T) {
	gen := NewSecureGenerator()

	for _, length := range []int{4, 6, 8, 10} {
		code, err := gen.Generate(length)
		require.NoError(t, err)
		assert.Len(t, code, length)

		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit %q", code, r)
		}
	}
}

func TestSecureGeneratorClampsShortLength(t *testing.T) {
	gen := NewSecureGenerator()

	for _, length := range []int{-1, 0, 3} {
		code, err := gen.Generate(length)
		require.NoError(t, err)
		assert.Len(t, code, MinCodeLength)
	}
}

func TestSecureGeneratorVaries(t *testing.T) {
	gen := NewSecureGenerator()

	seen := make(map[string]struct{})
	for range 32 {
		code, err := gen.Generate(8)
		require.NoError(t, err)
		seen[code] = struct{}{}
	}

	// 32 draws from 10^8 possibilities colliding down to a handful would
	// mean the source is broken.
	assert.Greater(t, len(seen), 16)
}
