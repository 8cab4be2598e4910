package post

import (
	"context"
	"time"

	"github.com/baechuer/blog-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// PostRepo is the Resource Store. GetByID, Update and Delete must report a
// missing post with domain.ErrPostNotFound.
type PostRepo interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error

	// Both lists are ordered by created_at ascending.
	List(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
}

// AuthorResolver looks up the users behind author ids.
// Unknown ids are absent from the result.
type AuthorResolver interface {
	ResolveAuthors(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// Cache stores JSON values. Incr treats a missing key as 0.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// EventPublisher receives an already-encoded envelope.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	return nil
}
