package post

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/blog-service/internal/domain"
	pkgctx "github.com/baechuer/blog-service/internal/pkg/context"
)

const (
	EventVersion  = 1
	EventProducer = "blog-service"

	RoutingKeyPostCreated = "post.created"
	RoutingKeyPostUpdated = "post.updated"
	RoutingKeyPostDeleted = "post.deleted"
)

// DomainEventEnvelope is the stable contract for all domain events emitted by blog-service.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

type PostEventPayload struct {
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	Title     string `json:"title,omitempty"`
}

// publish is best-effort: the mutation already happened, failures are only logged.
func (s *Service) publish(ctx context.Context, rk string, actor domain.Identity, p *domain.Post) {
	messageID := uuid.NewString()
	env := DomainEventEnvelope[PostEventPayload]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  messageID,
		TraceID:    pkgctx.GetRequestID(ctx),
		OccurredAt: s.clock.Now().UTC(),
		Payload: PostEventPayload{
			PostID:    p.ID,
			AuthorID:  p.AuthorID,
			ActorID:   actor.UserID,
			ActorRole: actor.Role.String(),
			Title:     p.Title,
		},
	}

	body, err := json.Marshal(env)
	if err != nil {
		zlog.Error().Err(err).Str("rk", rk).Msg("marshal domain event failed")
		return
	}
	if err := s.pub.PublishEvent(ctx, rk, messageID, body); err != nil {
		zlog.Error().
			Err(err).
			Str("rk", rk).
			Str("post_id", p.ID).
			Msg("publish domain event failed")
	}
}

// invalidateList bumps the list generation. A List that read the store
// before the bump stores its snapshot under the old generation, where no
// later reader looks.
func (s *Service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	gen, err := s.cache.Incr(ctx, cacheKeyListGenerator)
	if err != nil {
		zlog.Warn().Err(err).Str("key", cacheKeyListGenerator).Msg("cache invalidate failed")
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey(gen-1)); err != nil {
		zlog.Debug().Err(err).Int64("gen", gen-1).Msg("cache drop old list failed")
	}
}
