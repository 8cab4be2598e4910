package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/blog-service/internal/application/auth"
	"github.com/baechuer/blog-service/internal/domain"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Authenticator turns a bearer token into an Identity. It is stateless and
// never touches a store.
type Authenticator struct {
	verifier TokenVerifier
}

func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// Authenticate verifies Authorization: Bearer <access_token>.
func (a *Authenticator) Authenticate(r *http.Request) (domain.Identity, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return domain.Identity{}, domain.ErrTokenMissing()
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.Identity{}, domain.ErrTokenInvalid()
	}

	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return domain.Identity{}, domain.ErrTokenInvalid()
	}

	claims, err := a.verifier.VerifyAccessToken(raw)
	if err != nil {
		return domain.Identity{}, err
	}

	// The verifier may be any TokenVerifier; the identity must still be usable.
	if strings.TrimSpace(claims.UserID) == "" || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrTokenInvalid()
	}

	return domain.Identity{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

// Auth runs the Authenticator and injects the identity into the request context.
func Auth(a *Authenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
