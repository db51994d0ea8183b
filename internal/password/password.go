package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with salted bcrypt.
type Hasher struct {
	cost int
}

// New creates a Hasher with the default bcrypt cost.
func New() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// Hash returns the salted bcrypt digest of a plaintext password.
func (h *Hasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Verify reports whether the plaintext password matches the digest.
// Malformed digests verify as false rather than erroring.
func (h *Hasher) Verify(password string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(password)) == nil
}
