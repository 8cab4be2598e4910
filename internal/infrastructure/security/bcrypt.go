package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/blog-service/internal/domain"
)

// DefaultCost applies when the configured cost is zero or negative.
const DefaultCost = 12

// BcryptHasher implements auth.PasswordHasher. The salt lives inside the
// encoded hash, so no separate salt column exists.
type BcryptHasher struct{ cost int }

func NewBcryptHasher(cost int) *BcryptHasher {
	h := &BcryptHasher{cost: cost}
	if h.cost <= 0 {
		h.cost = DefaultCost
	}
	return h
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(encoded), nil
}

// Compare is constant time in the password. A malformed stored hash is a
// server fault, not a wrong password.
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.ErrBadSecret()
	default:
		return domain.ErrHashFailed(err)
	}
}
