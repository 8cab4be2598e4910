package post

import (
	"context"

	"github.com/baechuer/blog-service/internal/domain"
)

type UpdateCmd struct {
	Actor   domain.Identity
	Title   string
	Content string
}

// Update mutates a post the caller was already authorized for, typically by
// Authorize. Concurrent updates are last-write-wins.
func (s *Service) Update(ctx context.Context, p *domain.Post, cmd UpdateCmd) (*domain.Post, error) {
	if !CanManage(cmd.Actor, p) {
		return nil, domain.ErrForbidden()
	}

	if err := p.ApplyUpdate(cmd.Title, cmd.Content, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	s.publish(ctx, RoutingKeyPostUpdated, cmd.Actor, p)
	return p, nil
}
