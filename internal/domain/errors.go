package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found (or is not
	// visible to the caller).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState indicates a business-rule violation, such as ordering an
	// out-of-stock product or cancelling a shipped order.
	ErrInvalidState = errors.New("invalid state")
	// ErrVersionConflict indicates a stale optimistic-concurrency version.
	ErrVersionConflict = errors.New("version conflict")
)
