package common

import "errors"

var (
	// ErrNotFound is returned when a lookup exhausted its search space.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks 401 responses and rejected credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable marks whole-request transport failures (timeouts,
	// refused connections, 5xx). Callers may retry.
	ErrUnavailable = errors.New("service unavailable")

	// ErrInvalidSession is returned by the storage boundary when persisted
	// session data is missing or malformed.
	ErrInvalidSession = errors.New("invalid session")

	// ErrValidation marks client-side input errors.
	ErrValidation = errors.New("validation error")
)
