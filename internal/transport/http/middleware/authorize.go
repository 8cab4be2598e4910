package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/blog-service/internal/domain"
)

type PostAuthorizer interface {
	Authorize(ctx context.Context, id domain.Identity, postID string) (*domain.Post, error)
}

// AuthorizePost gates /posts/{param} routes. It must run after Auth. On
// success the fetched post is put on the context for the handler.
func AuthorizePost(authz PostAuthorizer, param string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				// Middleware ordering issue (Auth not applied) or context missing
				zlog.Error().Str("path", r.URL.Path).Msg("authorization gate reached without identity")
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			p, err := authz.Authorize(r.Context(), id, chi.URLParam(r, param))
			if err != nil {
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPost(r.Context(), p)))
		})
	}
}
