package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/blog-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type PostHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	Posts  PostHandler

	// AuthMW authenticates; AuthzMW authorizes /posts/{id} and must run after AuthMW.
	AuthMW  func(http.Handler) http.Handler
	AuthzMW func(http.Handler) http.Handler

	// Metrics exposes /metrics when non-nil.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Posts == nil {
		return nil, fmt.Errorf("nil Posts handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.AuthzMW == nil {
		return nil, fmt.Errorf("nil Authz middleware")
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Post("/register", deps.Auth.Register)
	r.Post("/login", deps.Auth.Login)
	r.Get("/posts", deps.Posts.List)

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMW)

		r.Get("/me", deps.Auth.Me)
		r.Get("/dashboard", deps.Posts.Dashboard)
		r.Post("/posts", deps.Posts.Create)

		r.With(deps.AuthzMW).Put("/posts/{id}", deps.Posts.Update)
		r.With(deps.AuthzMW).Delete("/posts/{id}", deps.Posts.Delete)
	})

	return r, nil
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
