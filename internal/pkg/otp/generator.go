package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MinCodeLength is the smallest code length the generator will produce.
const MinCodeLength = 4

// Generator produces fixed-length numeric one-time codes.
type Generator interface {
	// Generate returns a decimal string of exactly length digits,
	// left-padded with zeros. Lengths below MinCodeLength are raised to it.
	Generate(length int) (string, error)
}

// SecureGenerator implements Generator using crypto/rand.
type SecureGenerator struct{}

// NewSecureGenerator returns a Generator backed by the operating system's
// secure random source.
func NewSecureGenerator() *SecureGenerator {
	return &SecureGenerator{}
}

// Generate draws uniformly from [0, 10^length) so the distribution carries
// no modulo bias at the boundaries. An entropy-source failure is returned
// as-is; there is no weaker fallback.
func (*SecureGenerator) Generate(length int) (string, error) {
	if length < MinCodeLength {
		length = MinCodeLength
	}

	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("otp: secure random source failed: %w", err)
	}

	return fmt.Sprintf("%0*d", length, n), nil
}
