package http_handlers

import (
	"net/http"

	"github.com/baechuer/blog-service/internal/application/post"
	"github.com/baechuer/blog-service/internal/domain"
	"github.com/baechuer/blog-service/internal/logger"
	"github.com/baechuer/blog-service/internal/transport/http/dto"
	"github.com/baechuer/blog-service/internal/transport/http/middleware"
	"github.com/baechuer/blog-service/internal/transport/http/response"
)

type PostHandler struct {
	svc *post.Service
}

func NewPostHandler(svc *post.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// Create handles POST /posts. The author is always the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req dto.PostRequest
	if !bind(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), post.CreateCmd{Actor: id, Title: req.Title, Content: req.Content})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("post_id", p.ID).
		Str("author_id", p.AuthorID).
		Msg("post_created")

	response.Created(w, post.ViewOf(p))
}

// List handles GET /posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, views)
}

// Update handles PUT /posts/{id}. Runs behind AuthorizePost.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, p, ok := gated(w, r)
	if !ok {
		return
	}

	var req dto.PostRequest
	if !bind(w, r, &req) {
		return
	}

	updated, err := h.svc.Update(r.Context(), p, post.UpdateCmd{Actor: id, Title: req.Title, Content: req.Content})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("post_id", updated.ID).
		Str("actor_id", id.UserID).
		Msg("post_updated")

	response.OK(w, post.ViewOf(updated))
}

// Delete handles DELETE /posts/{id}. Runs behind AuthorizePost.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, p, ok := gated(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id, p); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("post_id", p.ID).
		Str("actor_id", id.UserID).
		Msg("post_deleted")

	response.Message(w, http.StatusOK, "Post deleted successfully")
}

// Dashboard handles GET /dashboard.
func (h *PostHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	views, err := h.svc.Dashboard(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, views)
}

// gated reads what Auth and AuthorizePost left on the context.
func gated(w http.ResponseWriter, r *http.Request) (domain.Identity, *domain.Post, bool) {
	id, ok := caller(w, r)
	if !ok {
		return domain.Identity{}, nil, false
	}
	p, ok := middleware.PostFromContext(r.Context())
	if !ok {
		logger.WithCtx(r.Context()).Error().Str("path", r.URL.Path).Msg("post handler reached without authorized post")
		response.WriteError(w, r, domain.ErrInternal(nil))
		return domain.Identity{}, nil, false
	}
	return id, p, true
}
