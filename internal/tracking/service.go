// Package tracking implements the user-facing time tracking operations on
// top of the entry store, enforcing the rules that span multiple entries:
// no double start, partial-id resolution and list-period resolution.
package tracking

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sigyehq/sigye/internal/model"
	"github.com/sigyehq/sigye/internal/storage"
	"github.com/sigyehq/sigye/internal/timeutil"
)

// Editor opens a file in an interactive editor and blocks until the editor
// process exits.
type Editor interface {
	Open(path string) error
}

// Service orchestrates start/stop/edit/delete/list operations. It holds no
// entry state of its own; the store is the single source of truth.
type Service struct {
	store  storage.Store
	editor Editor
	now    func() time.Time
}

// NewService creates a tracking service. editor may be nil when editing is
// not needed (EditEntry will fail cleanly).
func NewService(store storage.Store, editor Editor) *Service {
	return &Service{store: store, editor: editor, now: time.Now}
}

// StartTracking begins a new entry. It fails with ErrActiveEntryExists when
// an entry is already active; tracking must be stopped before starting anew.
func (s *Service) StartTracking(project, comment string, tags []string, startTime *time.Time) (model.TimeEntry, error) {
	if strings.TrimSpace(project) == "" {
		return model.TimeEntry{}, errors.New("project name is required")
	}

	active, err := s.store.GetActiveEntry()
	if err != nil {
		return model.TimeEntry{}, err
	}
	if active != nil {
		return model.TimeEntry{}, fmt.Errorf("project %q: %w", active.Project, ErrActiveEntryExists)
	}

	start := s.now()
	if startTime != nil {
		start = *startTime
	}

	entry := model.NewTimeEntry(project, comment, tags, start)
	if err := s.store.Save(entry); err != nil {
		return model.TimeEntry{}, err
	}
	return entry, nil
}

// StopTracking terminates the active entry. The end time defaults to now
// and must not precede the entry's start time.
func (s *Service) StopTracking(stopTime *time.Time) (model.TimeEntry, error) {
	active, err := s.store.GetActiveEntry()
	if err != nil {
		return model.TimeEntry{}, err
	}
	if active == nil {
		return model.TimeEntry{}, ErrNoActiveEntry
	}

	end := s.now()
	if stopTime != nil {
		end = *stopTime
	}
	if end.Before(active.StartTime) {
		return model.TimeEntry{}, fmt.Errorf("stop at %s before start at %s: %w",
			end.Format(time.RFC3339), active.StartTime.Format(time.RFC3339), ErrInvalidTimeRange)
	}

	active.EndTime = &end
	if err := s.store.Save(*active); err != nil {
		return model.TimeEntry{}, err
	}
	return *active, nil
}

// ActiveEntry returns the currently tracked entry, or nil when idle.
func (s *Service) ActiveEntry() (*model.TimeEntry, error) {
	return s.store.GetActiveEntry()
}

// UpdateEntry persists a modified entry. The entry must already exist.
func (s *Service) UpdateEntry(entry model.TimeEntry) (model.TimeEntry, error) {
	if _, err := s.store.GetByID(entry.ID); err != nil {
		return model.TimeEntry{}, err
	}
	if err := s.store.Save(entry); err != nil {
		return model.TimeEntry{}, err
	}
	return s.store.GetByID(entry.ID)
}

// EntryByPartialID resolves a case-sensitive id prefix to exactly one
// entry. More than one match means the caller must supply a longer prefix.
func (s *Service) EntryByPartialID(prefix string) (model.TimeEntry, error) {
	entries, err := s.store.GetAll()
	if err != nil {
		return model.TimeEntry{}, err
	}

	var matches []model.TimeEntry
	for _, e := range entries {
		if strings.HasPrefix(e.ID, prefix) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return model.TimeEntry{}, fmt.Errorf("id prefix %q: %w", prefix, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return model.TimeEntry{}, &AmbiguousIDError{Prefix: prefix, Count: len(matches)}
	}
}

// DeleteEntry removes the entry with the exact id and returns it.
func (s *Service) DeleteEntry(id string) (model.TimeEntry, error) {
	return s.store.Delete(id)
}

// EditEntry hands the serialized entry to the external editor and persists
// the edited result. The edited record must still be a well-formed entry
// with the same id.
func (s *Service) EditEntry(id string) (model.TimeEntry, error) {
	if s.editor == nil {
		return model.TimeEntry{}, &EditorError{Reason: "no editor configured"}
	}

	entry, err := s.store.GetByID(id)
	if err != nil {
		return model.TimeEntry{}, err
	}

	data, err := yaml.Marshal(entry)
	if err != nil {
		return model.TimeEntry{}, &EditorError{Reason: "serializing entry", Err: err}
	}

	tmp, err := os.CreateTemp("", "sigye-entry-*.yaml")
	if err != nil {
		return model.TimeEntry{}, &EditorError{Reason: "creating temp file", Err: err}
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return model.TimeEntry{}, &EditorError{Reason: "writing temp file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return model.TimeEntry{}, &EditorError{Reason: "writing temp file", Err: err}
	}

	if err := s.editor.Open(path); err != nil {
		return model.TimeEntry{}, &EditorError{Reason: "editor failed", Err: err}
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return model.TimeEntry{}, &EditorError{Reason: "reading edited file", Err: err}
	}

	var updated model.TimeEntry
	if err := yaml.Unmarshal(edited, &updated); err != nil {
		return model.TimeEntry{}, &EditorError{Reason: "edited entry is not valid YAML", Err: err}
	}
	if err := validateEdited(entry, updated); err != nil {
		return model.TimeEntry{}, &EditorError{Reason: err.Error()}
	}

	if err := s.store.Save(updated); err != nil {
		return model.TimeEntry{}, err
	}
	return updated, nil
}

func validateEdited(original, updated model.TimeEntry) error {
	if updated.ID != original.ID {
		return fmt.Errorf("entry id changed from %q to %q", original.ID, updated.ID)
	}
	if strings.TrimSpace(updated.Project) == "" {
		return errors.New("project must not be empty")
	}
	if updated.StartTime.IsZero() {
		return errors.New("start_time must be set")
	}
	if updated.EndTime != nil && updated.EndTime.Before(updated.StartTime) {
		return errors.New("end_time precedes start_time")
	}
	return nil
}

// ListEntries resolves the filter's period shorthand into concrete date
// bounds and queries the store. Explicit bounds on the filter win over the
// derived ones.
func (s *Service) ListEntries(f model.EntryListFilter) ([]model.TimeEntry, error) {
	if !model.ValidPeriod(f.TimePeriod) {
		return nil, fmt.Errorf("unknown time period %q", f.TimePeriod)
	}

	derivedStart, derivedEnd := timeutil.PeriodRange(f.TimePeriod, s.now())
	if f.StartDate == nil {
		f.StartDate = derivedStart
	}
	if f.EndDate == nil {
		f.EndDate = derivedEnd
	}

	return s.store.Filter(f)
}
