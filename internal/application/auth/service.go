package auth

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/blog-service/internal/domain"
)

const (
	minPasswordLen = 8
	// bcrypt ignores input past this length.
	maxPasswordBytes = 72
)

var validate = validator.New()

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner

	accessTTL time.Duration
	onLogin   func(outcome string)

	dummyOnce sync.Once
	dummyHash string
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(users UserRepo, hasher PasswordHasher, signer TokenSigner, cfg Config) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		accessTTL: ttl,
		onLogin:   func(string) {},
	}
}

// WithLoginHook registers a callback invoked with "success" or "failure"
// after every login attempt.
func (s *Service) WithLoginHook(fn func(outcome string)) *Service {
	if fn != nil {
		s.onLogin = fn
	}
	return s
}

// AuthTokens is the common token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken string
	ExpiresIn   int64  // seconds
	TokenType   string // "Bearer"
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

func (s *Service) issueToken(u domain.User) (AuthTokens, error) {
	access, err := s.signer.SignAccessToken(TokenClaims{
		UserID: u.ID,
		Name:   u.Name,
		Role:   u.Role,
	}, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}
	return AuthTokens{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

// absentUserCompare burns one hash comparison so an unknown email costs as
// much as a wrong password.
func (s *Service) absentUserCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("absent-user-placeholder-secret")
	})
	_ = s.hasher.Compare(s.dummyHash, password)
}

// ResolveAuthors implements the post service's author lookup.
func (s *Service) ResolveAuthors(ctx context.Context, ids []string) (map[string]domain.User, error) {
	if len(ids) == 0 {
		return map[string]domain.User{}, nil
	}
	return s.users.GetByIDs(ctx, ids)
}
