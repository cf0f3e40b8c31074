// Package common defines shared constants and sentinel errors used across
// the server layers of Country Explorer. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Account errors.
	ErrorDuplicateAccount   = errors.New("account already exists")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorUnauthenticated    = errors.New("unauthenticated")

	// Favorites errors.
	ErrorAlreadyFavorited = errors.New("country already in favorites")

	// Upstream country data source errors.
	ErrorUpstreamUnavailable = errors.New("country data source unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error pairs one of the sentinels above with a message that is safe to show
// to a client. errors.Is matches it against its Kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError returns an *Error of the given kind.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// PublicMessage returns the client-facing text of err: the message of the
// outermost *Error, or the text of fallback.
func PublicMessage(err error, fallback error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback.Error()
}
