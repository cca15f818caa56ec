package deliberation

import (
	"errors"
	"fmt"
)

// ErrCollaboratorUnavailable signals that an external collaborator (image
// findings or completion service) is absent. It triggers offline fallbacks
// and is never fatal to a session on its own.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// ErrSessionCancelled is returned when a session run is cancelled between
// rounds or inside a unit call.
var ErrSessionCancelled = errors.New("session cancelled")

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// DeliberationFailure is fatal to a session run: a unit call exhausted its
// retry budget or timed out. It carries the round and role that failed.
type DeliberationFailure struct {
	Round int
	Role  string
	Err   error
}

func (e *DeliberationFailure) Error() string {
	return fmt.Sprintf("deliberation failed at round %d (%s): %v", e.Round, e.Role, e.Err)
}

func (e *DeliberationFailure) Unwrap() error { return e.Err }

// ValidationFailure reports malformed structural data at a contract
// boundary, naming the offending field.
type ValidationFailure struct {
	Field  string
	Reason string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}
