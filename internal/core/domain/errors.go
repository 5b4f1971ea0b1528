package domain

import "errors"

// Sentinel errors for the auth subsystem. The API error handler maps these to
// HTTP statuses in exactly one place; everything below the handlers deals in
// these values only.
var (
	// ErrInvalidInput covers malformed or missing registration/login fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. Callers must not be able to tell which factor failed.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrNotLoggedIn means no credential was presented at all.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrInvalidToken covers malformed, expired, and mis-signed tokens
	// uniformly. A bad signature is deliberately indistinguishable from any
	// other verification failure.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrStalePassword means the token predates a password change.
	ErrStalePassword = errors.New("password changed after token was issued")

	ErrForbidden       = errors.New("insufficient role")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrTooManyAttempts = errors.New("too many login attempts")
)
