package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates that the user is not authorized to perform the requested action.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a concurrent-mutation conflict, e.g. a
	// conditional settle-mark that affected fewer rows than expected.
	ErrConflict = errors.New("conflict")

	// ErrNothingToSettle indicates a settlement attempt against a group
	// with no unsettled consumptions.
	ErrNothingToSettle = errors.New("nothing to settle")
)
