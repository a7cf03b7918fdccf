package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503/500
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// Requested role name is not in the role table.
func ErrUnknownRole(role string) *Error {
	return WithMeta(New(KindValidation, "unknown_role", "unknown role"), map[string]string{
		"role": role,
	})
}

func ErrUnsupportedProvider(provider string) *Error {
	return WithMeta(New(KindValidation, "unsupported_provider", "unsupported authentication provider"), map[string]string{
		"provider": provider,
	})
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for login failures to avoid user enumeration.
// Unknown account and wrong password are indistinguishable to the caller.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid username or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenMalformed() *Error {
	return New(KindAuth, "token_malformed", "malformed token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

func ErrTokenSignatureInvalid() *Error {
	return New(KindAuth, "token_signature_invalid", "token signature verification failed")
}

func ErrTokenWrongKind(want string) *Error {
	return WithMeta(New(KindAuth, "token_wrong_kind", "token kind not accepted here"), map[string]string{
		"want": want,
	})
}

// OAuth callback produced an identity with no usable email address.
func ErrEmailUnresolvable(provider string) *Error {
	return WithMeta(New(KindAuth, "email_unresolvable", "email not available from provider"), map[string]string{
		"provider": provider,
	})
}

// ProviderMismatch is deliberately user-facing: it names the provider the
// account was registered with so the user can pick the right login path.
func ErrProviderMismatch(registeredWith string) *Error {
	return WithMeta(
		New(KindConflict, "provider_mismatch",
			fmt.Sprintf("this account is registered with %s, please sign in with %s", registeredWith, registeredWith)),
		map[string]string{"provider": registeredWith},
	)
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

func ErrAccountDisabled() *Error {
	return New(KindForbidden, "account_disabled", "account disabled")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already registered")
}

func ErrUsernameAlreadyExists() *Error {
	return New(KindConflict, "username_already_exists", "username already taken")
}

// Raised after the username generator has exhausted its retry bound.
func ErrUsernameGenerationExhausted() *Error {
	return New(KindConflict, "username_generation_exhausted", "could not allocate a unique username")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrRedisUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "redis_unavailable", "cache unavailable", cause)
}

func ErrRabbitUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "rabbit_unavailable", "message broker unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrRandomFailed(cause error) *Error {
	return Wrap(KindInternal, "random_failed", "random generation failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
