package auth

import (
	"context"

	"github.com/baechuer/blog-service/internal/domain"
)

// Verify checks password against the stored hash for email. Its errors
// tell user_not_found apart from bad_secret, so only Login may face clients.
func (s *Service) Verify(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if domain.Is(err, "user_not_found") {
		s.absentUserCompare(password)
		return domain.User{}, err
	}
	if err != nil {
		return domain.User{}, err
	}

	err = s.hasher.Compare(u.PasswordHash, password)
	switch {
	case err == nil:
		return u, nil
	case domain.Is(err, "hash_failed"):
		return domain.User{}, err
	default:
		return domain.User{}, domain.ErrBadSecret()
	}
}

// Login issues an access token. An unknown email and a wrong password
// yield the same invalid_credentials error.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := s.login(ctx, email, password)
	if err != nil {
		s.onLogin("failure")
		return LoginResult{}, err
	}
	s.onLogin("success")
	return res, nil
}

func (s *Service) login(ctx context.Context, email, password string) (LoginResult, error) {
	if normalizeEmail(email) == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.Verify(ctx, email, password)
	if domain.Is(err, "user_not_found") || domain.Is(err, "bad_secret") {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}
	if err != nil {
		return LoginResult{}, err
	}

	toks, err := s.issueToken(u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: u, Tokens: toks}, nil
}
