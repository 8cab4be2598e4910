package http_handlers

import (
	"net/http"

	"github.com/baechuer/blog-service/internal/domain"
	"github.com/baechuer/blog-service/internal/transport/http/middleware"
	"github.com/baechuer/blog-service/internal/transport/http/response"
)

type validatable interface {
	Validate() error
}

// bind decodes the body into req and validates it. On failure the error
// response is already written.
func bind(w http.ResponseWriter, r *http.Request, req validatable) bool {
	err := response.DecodeJSON(w, r, req)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		response.WriteError(w, r, err)
		return false
	}
	return true
}

// caller is the identity Auth stored. Its absence means the route was
// mounted without Auth.
func caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
	}
	return id, ok
}
