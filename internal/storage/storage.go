// Package storage persists the time entry collection to a single YAML
// timesheet file. The YAMLStore is the only component touching durable
// state; every write rewrites the whole file atomically.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sigyehq/sigye/internal/model"
)

// Store is the repository over persisted time entries.
type Store interface {
	// GetActiveEntry returns the entry without an end time, or nil when
	// none is active.
	GetActiveEntry() (*model.TimeEntry, error)
	// GetAll returns every entry ordered by ascending start time. Ties
	// keep insertion order; the ordering is maintained on every write.
	GetAll() ([]model.TimeEntry, error)
	// GetByProject returns entries whose project matches exactly.
	GetByProject(project string) ([]model.TimeEntry, error)
	// GetByID returns the entry with the exact id, or ErrNotFound.
	GetByID(id string) (model.TimeEntry, error)
	// Save upserts an entry by id and persists the whole collection.
	Save(entry model.TimeEntry) error
	// Delete removes and returns the entry, or ErrNotFound.
	Delete(id string) (model.TimeEntry, error)
	// Filter returns the entries matching f, in GetAll order.
	Filter(f model.EntryListFilter) ([]model.TimeEntry, error)
}

// timesheet is the top-level document stored in the YAML file.
type timesheet struct {
	Entries []model.TimeEntry `yaml:"entries"`
}

// YAMLStore implements Store on a single YAML file. A loaded snapshot is
// cached in memory; the cache is refreshed after every successful write and
// dropped when a write fails.
type YAMLStore struct {
	path  string
	cache []model.TimeEntry
}

var _ Store = (*YAMLStore)(nil)

// NewYAMLStore creates a store backed by the given file. The file is
// created lazily as an empty collection on first use.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// load reads the timesheet file into the cache if needed. A missing file
// is written out as an empty collection rather than treated as an error.
func (s *YAMLStore) load() ([]model.TimeEntry, error) {
	if s.cache != nil {
		return s.cache, nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
		return s.cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var ts timesheet
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, &CorruptStateError{Path: s.path, Reason: "invalid YAML", Err: err}
	}
	for _, e := range ts.Entries {
		if e.ID == "" || e.Project == "" || e.StartTime.IsZero() {
			return nil, &CorruptStateError{
				Path:   s.path,
				Reason: fmt.Sprintf("entry %q is missing id, project or start_time", e.ID),
			}
		}
	}

	s.cache = ts.Entries
	return s.cache, nil
}

// write persists the given collection atomically (temp file + rename) and
// refreshes the cache. On failure the cache is dropped so a later read goes
// back to the file.
func (s *YAMLStore) write(entries []model.TimeEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := yaml.Marshal(timesheet{Entries: entries})
	if err != nil {
		return fmt.Errorf("marshalling timesheet: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		s.cache = nil
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		s.cache = nil
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	if entries == nil {
		entries = []model.TimeEntry{}
	}
	s.cache = entries
	return nil
}

// GetActiveEntry returns the single unterminated entry, if any. Finding
// more than one means the stored invariant has been violated.
func (s *YAMLStore) GetActiveEntry() (*model.TimeEntry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	var active *model.TimeEntry
	for i := range entries {
		if !entries[i].Active() {
			continue
		}
		if active != nil {
			return nil, &CorruptStateError{
				Path:   s.path,
				Reason: "more than one active entry",
			}
		}
		e := entries[i]
		active = &e
	}
	return active, nil
}

func (s *YAMLStore) GetAll() ([]model.TimeEntry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.TimeEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *YAMLStore) GetByProject(project string) ([]model.TimeEntry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []model.TimeEntry
	for _, e := range entries {
		if e.Project == project {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *YAMLStore) GetByID(id string) (model.TimeEntry, error) {
	entries, err := s.load()
	if err != nil {
		return model.TimeEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.TimeEntry{}, fmt.Errorf("id %q: %w", id, ErrNotFound)
}

// Save upserts by id, re-sorts by start time (stable, so equal start times
// keep insertion order) and rewrites the file.
func (s *YAMLStore) Save(entry model.TimeEntry) error {
	entries, err := s.load()
	if err != nil {
		return err
	}

	updated := make([]model.TimeEntry, len(entries))
	copy(updated, entries)

	found := false
	for i := range updated {
		if updated[i].ID == entry.ID {
			updated[i] = entry
			found = true
			break
		}
	}
	if !found {
		updated = append(updated, entry)
	}

	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].StartTime.Before(updated[j].StartTime)
	})

	return s.write(updated)
}

func (s *YAMLStore) Delete(id string) (model.TimeEntry, error) {
	entries, err := s.load()
	if err != nil {
		return model.TimeEntry{}, err
	}

	var deleted *model.TimeEntry
	remaining := make([]model.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == id {
			e := e
			deleted = &e
			continue
		}
		remaining = append(remaining, e)
	}
	if deleted == nil {
		return model.TimeEntry{}, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}

	if err := s.write(remaining); err != nil {
		return model.TimeEntry{}, err
	}
	return *deleted, nil
}

func (s *YAMLStore) Filter(f model.EntryListFilter) ([]model.TimeEntry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []model.TimeEntry
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
