package http_handlers

import (
	"net/http"

	"github.com/baechuer/blog-service/internal/application/auth"
	"github.com/baechuer/blog-service/internal/logger"
	"github.com/baechuer/blog-service/internal/transport/http/dto"
	"github.com/baechuer/blog-service/internal/transport/http/response"
)

// AuthHandler serves /register, /login and /me.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !bind(w, r, &req) {
		return
	}

	u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	logger.WithCtx(r.Context()).Info().Str("user_id", u.ID).Str("role", u.Role.String()).Msg("user_registered")

	response.Created(w, dto.RegisterResponse{Message: "User registered successfully", User: dto.UserFromDomain(u)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bind(w, r, &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	logger.WithCtx(r.Context()).Info().Str("user_id", res.User.ID).Msg("user_logged_in")

	response.OK(w, dto.LoginResponse{
		Token:     res.Tokens.AccessToken,
		TokenType: res.Tokens.TokenType,
		ExpiresIn: res.Tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Me(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserFromDomain(u))
}
