package tracking

import (
	"errors"
	"fmt"
)

var (
	// ErrActiveEntryExists means tracking was started while an entry is
	// already active. Stop it first.
	ErrActiveEntryExists = errors.New("an entry is already being tracked")

	// ErrNoActiveEntry means stop was requested with nothing active.
	ErrNoActiveEntry = errors.New("no active entry")

	// ErrInvalidTimeRange means the resulting end time would precede the
	// entry's start time.
	ErrInvalidTimeRange = errors.New("end time precedes start time")
)

// AmbiguousIDError reports a partial id that matches more than one entry.
// The caller must supply a longer prefix.
type AmbiguousIDError struct {
	Prefix string
	Count  int
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("%d entries match id prefix %q", e.Count, e.Prefix)
}

// EditorError reports a failed external edit: the editor process errored,
// its output did not parse, or the edited record was not a valid entry.
type EditorError struct {
	Reason string
	Err    error
}

func (e *EditorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("editing entry: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("editing entry: %s", e.Reason)
}

func (e *EditorError) Unwrap() error { return e.Err }
