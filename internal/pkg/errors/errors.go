package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks a uniqueness violation (duplicate client key, prompt name...).
	ErrConflict = errors.New("already exists")
	// ErrUpstream marks a failure of an external dependency such as the LLM API.
	ErrUpstream = errors.New("upstream failure")
)
