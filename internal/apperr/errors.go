package apperr

import "errors"

var (
	// ErrNotFound covers both a missing entity and an entity owned by
	// another user. The two cases are never distinguished to callers.
	ErrNotFound = errors.New("not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
