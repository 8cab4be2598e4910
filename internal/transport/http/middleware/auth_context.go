package middleware

import (
	"context"

	"github.com/baechuer/blog-service/internal/domain"
)

type ctxKey string

const (
	ctxIdentity ctxKey = "identity"
	ctxPost     ctxKey = "post"
)

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	v, ok := ctx.Value(ctxIdentity).(domain.Identity)
	return v, ok && v.UserID != ""
}

// WithPost carries a post that already passed the authorization gate.
func WithPost(ctx context.Context, p *domain.Post) context.Context {
	return context.WithValue(ctx, ctxPost, p)
}

func PostFromContext(ctx context.Context) (*domain.Post, bool) {
	v, ok := ctx.Value(ctxPost).(*domain.Post)
	return v, ok && v != nil
}
