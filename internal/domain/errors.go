package domain

import (
	"errors"
	"strings"
)

// ErrKind groups error codes by how the transport reports them.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"
	KindAuth           ErrKind = "auth"
	KindForbidden      ErrKind = "forbidden"
	KindNotFound       ErrKind = "not_found"
	KindConflict       ErrKind = "conflict"
	KindInfrastructure ErrKind = "infrastructure"
	KindInternal       ErrKind = "internal"
)

// Error is returned by every layer below the transport. Code is the stable
// machine identifier clients see, Message is safe to show, and Cause is for
// logs only.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	e := New(kind, code, msg)
	e.Cause = cause
	return e
}

// WithMeta attaches key/value pairs; an odd trailing key is dropped.
func (e *Error) WithMeta(kv ...string) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]string, len(kv)/2)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Meta[kv[i]] = kv[i+1]
	}
	return e
}

func asError(err error) (*Error, bool) {
	var de *Error
	ok := errors.As(err, &de)
	return de, ok
}

// Is reports whether err is, or wraps, an *Error with the given code.
func Is(err error, code string) bool {
	de, ok := asError(err)
	return ok && de.Code == code
}

// KindOf is KindInternal for anything that is not an *Error.
func KindOf(err error) ErrKind {
	if de, ok := asError(err); ok {
		return de.Kind
	}
	return KindInternal
}

// Input validation.

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return New(KindValidation, "missing_field", "missing required field").WithMeta("field", field)
}

func ErrInvalidField(field, reason string) *Error {
	return New(KindValidation, "invalid_field", "invalid field").WithMeta("field", field, "reason", reason)
}

func ErrWeakPassword(reason string) *Error {
	return New(KindValidation, "weak_password", "password does not meet requirements").WithMeta("reason", reason)
}

func ErrInvalidRole(role string) *Error {
	return New(KindValidation, "invalid_role", "invalid role").WithMeta("role", role)
}

// Authentication.

// ErrInvalidCredentials is the only login failure a client ever sees.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

// ErrBadSecret is the diagnostic form of a password mismatch.
// Login collapses it into ErrInvalidCredentials before it reaches a client.
func ErrBadSecret() *Error {
	return New(KindAuth, "bad_secret", "password mismatch")
}

func ErrTokenMissing() *Error { return New(KindAuth, "token_missing", "no token provided") }
func ErrTokenInvalid() *Error { return New(KindAuth, "token_invalid", "invalid token") }
func ErrTokenExpired() *Error { return New(KindAuth, "token_expired", "token is expired") }

// ErrUnknownPrincipal: the token verified but its subject no longer exists.
func ErrUnknownPrincipal() *Error {
	return New(KindAuth, "unknown_principal", "unknown principal")
}

// Authorization and lookups.

func ErrForbidden() *Error    { return New(KindForbidden, "forbidden", "forbidden") }
func ErrUserNotFound() *Error { return New(KindNotFound, "user_not_found", "user not found") }
func ErrPostNotFound() *Error { return New(KindNotFound, "post_not_found", "post not found") }
func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already registered")
}

// Server side failures. The cause never reaches a client.

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
