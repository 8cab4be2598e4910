package auth

import (
	"context"
	"time"

	"github.com/baechuer/blog-service/internal/domain"
)

// UserRepo is the Credential Store. Lookups of unknown users return
// domain.ErrUserNotFound.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	// GetByIDs omits unknown ids instead of failing.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
	// Create rejects a taken email with domain.ErrEmailAlreadyExists,
	// atomically with respect to concurrent Creates.
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only when password matches hash.
	Compare(hash, password string) error
}

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID string
	Name   string
	Role   domain.Role
	Exp    time.Time
}

// TokenSigner issues and verifies access tokens. Verify reports
// domain.ErrTokenExpired or domain.ErrTokenInvalid.
type TokenSigner interface {
	SignAccessToken(claims TokenClaims, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}
