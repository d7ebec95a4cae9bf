// package auth provides credential hashing and token issuance
package auth

import (
	"fmt"

	"github.com/amosley/joinboard/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// Hasher is the one-way credential hashing interface. The migration uses
// Hash only; Compare exists for the login path.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher implements [Hasher] with bcrypt at a configurable cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a [BcryptHasher]. A non-positive cost falls back to
// [bcrypt.DefaultCost].
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks a password against a stored hash, returning
// [shared.ErrAuthFailed] on mismatch.
func (h *BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return nil
}
