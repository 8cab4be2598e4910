package post

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/blog-service/internal/domain"
)

// List returns every post with its author resolved. Public.
func (s *Service) List(ctx context.Context) ([]PostView, error) {
	key, cacheable := s.listKey(ctx)
	if cacheable {
		var cached []PostView
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache list get failed")
		} else if found {
			zlog.Debug().Str("key", key).Msg("cache list hit")
			return cached, nil
		}
	}

	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.withAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, views, s.ttlList); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache list set failed")
		}
	}
	return views, nil
}

// listKey reads the current list generation. It must run before the store
// read so a concurrent write moves later readers to a fresh key.
func (s *Service) listKey(ctx context.Context) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	var gen int64
	if _, err := s.cache.Get(ctx, cacheKeyListGenerator, &gen); err != nil {
		zlog.Warn().Err(err).Str("key", cacheKeyListGenerator).Msg("cache generation get failed")
		return "", false
	}
	return listCacheKey(gen), true
}

// Dashboard scopes the listing by role: admins see every post, everyone
// else sees only their own. It never denies.
func (s *Service) Dashboard(ctx context.Context, actor domain.Identity) ([]PostView, error) {
	if actor.UserID == "" {
		return nil, domain.ErrTokenMissing()
	}

	var (
		posts []*domain.Post
		err   error
	)
	if actor.Role.IsAdmin() {
		posts, err = s.repo.List(ctx)
	} else {
		posts, err = s.repo.ListByAuthor(ctx, actor.UserID)
	}
	if err != nil {
		return nil, err
	}
	return s.withAuthors(ctx, posts)
}
