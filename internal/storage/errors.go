package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no entry has the requested id.
// Callers should match it with errors.Is.
var ErrNotFound = errors.New("entry not found")

// CorruptStateError reports a backing file that violates the storage schema
// or the single-active-entry invariant. Loading never degrades to a
// best-effort parse; a corrupt file fails the whole operation.
type CorruptStateError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CorruptStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt time entry store %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt time entry store %s: %s", e.Path, e.Reason)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }
