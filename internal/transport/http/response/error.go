package response

import (
	"errors"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/blog-service/internal/domain"
	pkgctx "github.com/baechuer/blog-service/internal/pkg/context"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:     http.StatusBadRequest,
	domain.KindAuth:           http.StatusUnauthorized,
	domain.KindForbidden:      http.StatusForbidden,
	domain.KindNotFound:       http.StatusNotFound,
	domain.KindConflict:       http.StatusConflict,
	domain.KindInfrastructure: http.StatusServiceUnavailable,
	domain.KindInternal:       http.StatusInternalServerError,
}

func statusFromKind(kind domain.ErrKind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// payloadFrom exposes only the code, message and meta of a *domain.Error.
// Anything else, and every cause, stays server side.
func payloadFrom(err error) (int, ErrorPayload) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, ErrorPayload{Code: "internal_error", Message: "internal error"}
	}
	return statusFromKind(de.Kind), ErrorPayload{Code: de.Code, Message: de.Message, Meta: de.Meta}
}

// WriteError renders err as {"error": {...}} with the status for its kind.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, p := payloadFrom(err)
	p.RequestID = pkgctx.GetRequestID(r.Context())

	if status >= http.StatusInternalServerError {
		zlog.Error().Err(err).
			Str("request_id", p.RequestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request_failed")
	}

	WriteJSON(w, status, ErrorBody{Error: p})
}
