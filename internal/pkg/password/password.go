// Package password hashes and verifies login secrets with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch means the secret does not match the hash.
	ErrMismatch = errors.New("password mismatch")
	// ErrInvalidCredentialFormat means the stored hash is not a bcrypt hash.
	ErrInvalidCredentialFormat = errors.New("invalid credential format")
)

// Hasher produces and checks bcrypt hashes at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or bcrypt.DefaultCost when cost is
// outside bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted hash of secret. Two calls with the same secret
// produce different hashes.
func (h *Hasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether secret matches hash. Malformed hashes never match.
func (h *Hasher) Verify(secret, hash string) bool {
	return h.Check(secret, hash) == nil
}

// Check returns nil on a match, ErrMismatch on a wrong secret and
// ErrInvalidCredentialFormat when hash cannot be parsed.
func (h *Hasher) Check(secret, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return ErrInvalidCredentialFormat
	}
}
