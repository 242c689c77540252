// Package common defines shared constants and sentinel errors used across
// the hub's repositories, services and transport. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrAlreadyLiked   = errors.New("already liked")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrRateLimited    = errors.New("too many attempts")

	// Validation errors.
	ErrorValidation       = errors.New("validation error")
	ErrInvalidEmailDomain = errors.New("email domain not allowed")
	ErrSelfFollow         = errors.New("cannot follow yourself")

	// Account verification errors.
	ErrAlreadyVerified = errors.New("account already verified")
	ErrInvalidCode     = errors.New("invalid code")
	ErrCodeExpired     = errors.New("code expired")

	// Login errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverified         = errors.New("account not verified")

	// Auth errors (missing, malformed, tampered or expired token).
	ErrInvalidToken = errors.New("invalid token")

	// External dependency errors.
	ErrMailDelivery = errors.New("mail delivery failed")
	ErrUpload       = errors.New("upload failed")
)

// ValidationError carries a user-correctable message and matches
// ErrorValidation with errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

// Invalid returns a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
