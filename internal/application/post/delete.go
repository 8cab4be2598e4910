package post

import (
	"context"

	"github.com/baechuer/blog-service/internal/domain"
)

// Delete removes a post the caller was already authorized for.
func (s *Service) Delete(ctx context.Context, actor domain.Identity, p *domain.Post) error {
	if !CanManage(actor, p) {
		return domain.ErrForbidden()
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}

	s.invalidateList(ctx)
	s.publish(ctx, RoutingKeyPostDeleted, actor, p)
	return nil
}
