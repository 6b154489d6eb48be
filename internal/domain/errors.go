package domain

import "errors"

// Login flow error taxonomy. Every rejection a user can cause maps to one
// of these; handlers translate them into the messages rendered back into
// the form and never expose internal detail.
var (
	// ErrSecurityCheck is returned when the CSRF token is missing or does
	// not match the session's stored token.
	ErrSecurityCheck = errors.New("security check failed")

	// ErrInvalidInput is returned for a malformed email or empty password.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable from the outside.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInternal is returned when the user store or session store is
	// unavailable. Details are logged, never shown to the user.
	ErrInternal = errors.New("internal error")
)
