package auth

import (
	"context"
	"strings"

	"github.com/baechuer/blog-service/internal/domain"
)

// Me loads the user behind an authenticated identity. A valid token whose
// user has since disappeared is reported as unknown_principal.
func (s *Service) Me(ctx context.Context, id domain.Identity) (domain.User, error) {
	if strings.TrimSpace(id.UserID) == "" {
		return domain.User{}, domain.ErrTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, id.UserID)
	if domain.Is(err, "user_not_found") {
		return domain.User{}, domain.ErrUnknownPrincipal()
	}
	return u, err
}
