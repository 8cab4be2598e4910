package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/blog-service/internal/domain"
	pkgctx "github.com/baechuer/blog-service/internal/pkg/context"
)

type decodeDst struct {
	A string `json:"a"`
	B int    `json:"b"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "single object", body: `{"a":"x","b":1}`},
		{name: "unknown fields ignored", body: `{"a":"x","b":1,"author":"someone"}`},
		{name: "trailing whitespace", body: "{\"a\":\"x\"}\n  "},
		{name: "truncated", body: `{"a":"x",`, wantErr: true},
		{name: "two values", body: `{}{}`, wantErr: true},
		{name: "trailing garbage", body: `{"a":"x"} nope`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "wrong type", body: `{"b":"one"}`, wantErr: true},
		{name: "too large", body: `{"a":"` + strings.Repeat("x", maxBodyBytes+1) + `"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(tc.body))

			var dst decodeDst
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			if tc.wantErr {
				assert.True(t, domain.Is(err, "invalid_json"), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "x", dst.A)
		})
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorPayload {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "body=%s", rr.Body.String())
	return body.Error
}

func TestWriteError_DomainError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(pkgctx.WithRequestID(req.Context(), "req-123"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, domain.ErrMissingField("email"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, contentTypeJSON, rr.Header().Get("Content-Type"))

	p := decodeError(t, rr)
	assert.Equal(t, "missing_field", p.Code)
	assert.Equal(t, "email", p.Meta["field"])
	assert.Equal(t, "req-123", p.RequestID)
}

func TestWriteError_HidesDetails(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		secret string
	}{
		{"plain error", errors.New("boom: secret detail"), http.StatusInternalServerError, "internal_error", "secret detail"},
		{"wrapped cause", domain.ErrDBUnavailable(errors.New("password=hunter2")), http.StatusServiceUnavailable, "db_unavailable", "hunter2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)

			assert.Equal(t, tc.status, rr.Code)
			assert.NotContains(t, rr.Body.String(), tc.secret)
			p := decodeError(t, rr)
			assert.Equal(t, tc.code, p.Code)
			assert.Empty(t, p.Meta)
			assert.Empty(t, p.RequestID)
		})
	}
}

func TestStatusFromKind(t *testing.T) {
	want := map[domain.ErrKind]int{
		domain.KindValidation:     http.StatusBadRequest,
		domain.KindAuth:           http.StatusUnauthorized,
		domain.KindForbidden:      http.StatusForbidden,
		domain.KindNotFound:       http.StatusNotFound,
		domain.KindConflict:       http.StatusConflict,
		domain.KindInfrastructure: http.StatusServiceUnavailable,
		domain.KindInternal:       http.StatusInternalServerError,
		"unknown":                 http.StatusInternalServerError,
	}
	for kind, status := range want {
		assert.Equal(t, status, statusFromKind(kind), "kind=%s", kind)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusOK, map[string]any{"ok": true})
	assert.Equal(t, contentTypeJSON, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	rr.Header().Set("Content-Type", "application/custom")
	WriteJSON(rr, http.StatusCreated, map[string]any{"x": 1})
	assert.Equal(t, "application/custom", rr.Header().Get("Content-Type"))
}

func TestSuccessHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, []string{"a"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["a"]`, rr.Body.String())

	rr = httptest.NewRecorder()
	Created(rr, map[string]string{"y": "z"})
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"y":"z"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	Message(rr, http.StatusOK, "Post deleted successfully")
	assert.JSONEq(t, `{"message":"Post deleted successfully"}`, rr.Body.String())
}
