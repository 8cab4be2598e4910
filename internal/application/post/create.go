package post

import (
	"context"

	"github.com/baechuer/blog-service/internal/domain"
)

type CreateCmd struct {
	Actor   domain.Identity
	Title   string
	Content string
}

// Create stores a post authored by the caller. Any author supplied by the
// client is ignored; the caller must still exist.
func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Post, error) {
	if cmd.Actor.UserID == "" {
		return nil, domain.ErrTokenMissing()
	}

	p, err := domain.NewPost(cmd.Actor.UserID, cmd.Title, cmd.Content, s.clock.Now())
	if err != nil {
		return nil, err
	}

	users, err := s.authors.ResolveAuthors(ctx, []string{cmd.Actor.UserID})
	if err != nil {
		return nil, err
	}
	if _, ok := users[cmd.Actor.UserID]; !ok {
		return nil, domain.ErrUnknownPrincipal()
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	s.publish(ctx, RoutingKeyPostCreated, cmd.Actor, p)
	return p, nil
}
