// Package common defines shared constants and sentinel errors used across
// the recipebox server layers. Callers should use errors.Is to match these
// values; detail is attached by wrapping, e.g.
//
//	fmt.Errorf("%w: ingredients is required", common.ErrorValidation)
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorValidation   = errors.New("validation error")
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// ErrInvalidCredentials is returned by login for both an unknown
	// username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Auth gate errors.
	ErrMissingToken    = errors.New("missing token")
	ErrMalformedHeader = errors.New("invalid authorization header format")

	// Token errors.
	ErrTokenExpired   = errors.New("token has expired")
	ErrMalformedToken = errors.New("invalid token")
)

// IsAuthError reports whether err is one of the errors that should be
// answered with 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrorUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrMalformedToken)
}
