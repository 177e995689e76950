package models

import "errors"

// The distinct, recoverable outcomes of relationship and notification
// operations. Callers are expected to branch on these with errors.Is; they are
// never collapsed into a generic failure.
var (
	// ErrDuplicateEdge is returned when a relationship between the pair already exists.
	ErrDuplicateEdge = errors.New("relationship already exists")

	// ErrSelfFollow is returned when an account tries to follow itself.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrNotFound is returned when the edge, account, or notification does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the acting account is not the one a
	// transition reserves for itself.
	ErrUnauthorized = errors.New("not authorized")

	// ErrInvalidTransition is returned when the current status does not
	// support the requested move.
	ErrInvalidTransition = errors.New("transition not valid for current status")

	// ErrStatusMismatch is returned when a concurrent transition won the race.
	ErrStatusMismatch = errors.New("status changed by a concurrent update")
)
