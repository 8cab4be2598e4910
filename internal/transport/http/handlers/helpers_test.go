package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/blog-service/internal/application/auth"
	"github.com/baechuer/blog-service/internal/application/post"
	"github.com/baechuer/blog-service/internal/domain"
	"github.com/baechuer/blog-service/internal/infrastructure/memory"
	"github.com/baechuer/blog-service/internal/infrastructure/security"
	"github.com/baechuer/blog-service/internal/transport/http/middleware"
	"github.com/baechuer/blog-service/internal/transport/http/response"
)

type testEnv struct {
	authSvc *auth.Service
	postSvc *post.Service
	posts   *memory.PostRepo
	mux     http.Handler
}

// newTestEnv wires the handlers behind the same gates the router uses.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	posts := memory.NewPostRepo()
	signer := security.NewJWTSigner("test-secret", "blog-service")
	authSvc := auth.NewService(users, security.NewBcryptHasher(bcrypt.MinCost), signer, auth.Config{})
	postSvc := post.New(posts, authSvc, nil, nil, nil, 0)

	ah := NewAuthHandler(authSvc)
	ph := NewPostHandler(postSvc)
	authn := middleware.Auth(middleware.NewAuthenticator(signer), response.WriteError)
	authz := middleware.AuthorizePost(postSvc, "id", response.WriteError)

	r := chi.NewRouter()
	r.Post("/register", ah.Register)
	r.Post("/login", ah.Login)
	r.Get("/posts", ph.List)
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/me", ah.Me)
		r.Get("/dashboard", ph.Dashboard)
		r.Post("/posts", ph.Create)
		r.With(authz).Put("/posts/{id}", ph.Update)
		r.With(authz).Delete("/posts/{id}", ph.Delete)
	})

	return &testEnv{authSvc: authSvc, postSvc: postSvc, posts: posts, mux: r}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		rd = mustJSONBody(t, b)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// user registers and logs in, returning the user and an access token.
func (e *testEnv) user(t *testing.T, name, email string, role domain.Role) (domain.User, string) {
	t.Helper()

	u, err := e.authSvc.Register(context.Background(), name, email, "password123", role.String())
	require.NoError(t, err)
	res, err := e.authSvc.Login(context.Background(), email, "password123")
	require.NoError(t, err)
	return u, res.Tokens.AccessToken
}

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body=%s", rec.Body.String())
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	mustReadJSON(t, rec, &body)
	return body.Error.Code
}
