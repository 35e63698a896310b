package service

import "errors"

// Service-level sentinel errors. Store and domain errors are passed through
// wrapped, so callers can also match store.ErrUserNotFound,
// store.ErrEmailExists and the domain validation errors with errors.Is.
var (
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
