package hash

// Hash is the contract for one-way digests of secrets.
//
// Hash produces the digest for a plaintext; Verify reports whether a
// plaintext matches a previously produced digest. Implementations must
// compare digests in constant time.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
