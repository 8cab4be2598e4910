package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/blog-service/internal/domain"
)

// Register creates a user. The password is hashed here and nowhere else;
// the repository only ever sees the hash.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return domain.User{}, domain.ErrMissingField("name")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if err := validate.Var(email, "email"); err != nil {
		return domain.User{}, domain.ErrInvalidField("email", "invalid format")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if len(password) < minPasswordLen {
		return domain.User{}, domain.ErrWeakPassword("min length 8")
	}
	if len(password) > maxPasswordBytes {
		return domain.User{}, domain.ErrInvalidField("password", "must be <= 72 bytes")
	}

	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         r,
		CreatedAt:    time.Now().UTC(),
	}

	return s.users.Create(ctx, u)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
