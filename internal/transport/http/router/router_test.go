package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- fakes ----------

func write(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}

type fakeHealth struct{}

func (fakeHealth) Healthz(w http.ResponseWriter, r *http.Request) { write(w, "healthz") }
func (fakeHealth) Readyz(w http.ResponseWriter, r *http.Request)  { write(w, "readyz") }

type fakeAuth struct{}

func (fakeAuth) Register(w http.ResponseWriter, r *http.Request) { write(w, "register") }
func (fakeAuth) Login(w http.ResponseWriter, r *http.Request)    { write(w, "login") }
func (fakeAuth) Me(w http.ResponseWriter, r *http.Request)       { write(w, "me") }

type fakePosts struct{}

func (fakePosts) Create(w http.ResponseWriter, r *http.Request)    { write(w, "create") }
func (fakePosts) List(w http.ResponseWriter, r *http.Request)      { write(w, "list") }
func (fakePosts) Update(w http.ResponseWriter, r *http.Request)    { write(w, "update") }
func (fakePosts) Delete(w http.ResponseWriter, r *http.Request)    { write(w, "delete") }
func (fakePosts) Dashboard(w http.ResponseWriter, r *http.Request) { write(w, "dashboard") }

// tagMW appends its name to X-Chain so tests can see which gates ran.
func tagMW(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h, err := New(Deps{
		Health:  fakeHealth{},
		Auth:    fakeAuth{},
		Posts:   fakePosts{},
		AuthMW:  tagMW("auth"),
		AuthzMW: tagMW("authz"),
		Metrics: MetricsHandler(),
	})
	require.NoError(t, err)
	return h
}

func TestNew_RequiresDeps(t *testing.T) {
	full := Deps{
		Health:  fakeHealth{},
		Auth:    fakeAuth{},
		Posts:   fakePosts{},
		AuthMW:  tagMW("auth"),
		AuthzMW: tagMW("authz"),
	}

	mutations := map[string]func(d *Deps){
		"health": func(d *Deps) { d.Health = nil },
		"auth":   func(d *Deps) { d.Auth = nil },
		"posts":  func(d *Deps) { d.Posts = nil },
		"authmw": func(d *Deps) { d.AuthMW = nil },
		"authz":  func(d *Deps) { d.AuthzMW = nil },
	}
	for name, mut := range mutations {
		t.Run(name, func(t *testing.T) {
			d := full
			mut(&d)
			_, err := New(d)
			assert.Error(t, err)
		})
	}

	_, err := New(full)
	assert.NoError(t, err)
}

func TestRoutes_Gates(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		chain  []string
	}{
		{http.MethodGet, "/healthz", "healthz", nil},
		{http.MethodGet, "/readyz", "readyz", nil},
		{http.MethodPost, "/register", "register", nil},
		{http.MethodPost, "/login", "login", nil},
		{http.MethodGet, "/posts", "list", nil},
		{http.MethodGet, "/me", "me", []string{"auth"}},
		{http.MethodGet, "/dashboard", "dashboard", []string{"auth"}},
		{http.MethodPost, "/posts", "create", []string{"auth"}},
		{http.MethodPut, "/posts/p1", "update", []string{"auth", "authz"}},
		{http.MethodDelete, "/posts/p1", "delete", []string{"auth", "authz"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, tt.chain, rec.Header().Values("X-Chain"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRoutes_UnknownAndWrongMethod(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/posts/p1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)

	// Generate at least one sample.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "blog_service_http_requests_total"))
}
