package post

import (
	"context"
	"strconv"
	"time"

	"github.com/baechuer/blog-service/internal/domain"
)

const (
	cacheKeyPublicList    = "posts:public:list"
	cacheKeyListGenerator = "posts:public:gen"
)

// listCacheKey scopes a cached listing to the generation it was read under.
func listCacheKey(gen int64) string {
	return cacheKeyPublicList + ":" + strconv.FormatInt(gen, 10)
}

type Service struct {
	repo    PostRepo
	authors AuthorResolver
	pub     EventPublisher
	cache   Cache
	clock   Clock

	ttlList time.Duration
}

// New wires the post service. pub, cache and clock may be nil.
func New(repo PostRepo, authors AuthorResolver, pub EventPublisher, cache Cache, clock Clock, ttlList time.Duration) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if clock == nil {
		clock = systemClock{}
	}
	if ttlList == 0 {
		ttlList = 15 * time.Second
	}
	return &Service{
		repo:    repo,
		authors: authors,
		pub:     pub,
		cache:   cache,
		clock:   clock,
		ttlList: ttlList,
	}
}

// CanManage is the ownership-or-admin decision. It has no side effects.
func CanManage(id domain.Identity, p *domain.Post) bool {
	if p == nil {
		return false
	}
	if id.Role.IsAdmin() {
		return true
	}
	return p.IsAuthoredBy(id.UserID)
}

// Authorize fetches the post and returns it only if id may manage it.
// A missing post is reported before any ownership decision.
func (s *Service) Authorize(ctx context.Context, id domain.Identity, postID string) (*domain.Post, error) {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !CanManage(id, p) {
		return nil, domain.ErrForbidden()
	}
	return p, nil
}
