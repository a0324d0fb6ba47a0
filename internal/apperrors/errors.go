// Package apperrors holds the error kinds shared by repositories, services
// and handlers. Callers classify failures with errors.Is; the handler layer
// maps each kind to an HTTP status.
package apperrors

import "errors"

var (
	// ErrNotFound means a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor lacks rights over the target resource.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means the request collides with existing state, such as a
	// duplicate friend request.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState means a state-machine transition was attempted from the
	// wrong state.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidOperation means the request is malformed on its own terms,
	// such as a self-targeted friend request.
	ErrInvalidOperation = errors.New("invalid operation")
)
