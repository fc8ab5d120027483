package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigyehq/sigye/internal/model"
	"github.com/sigyehq/sigye/internal/storage"
)

func newStore(t *testing.T) *storage.YAMLStore {
	t.Helper()
	return storage.NewYAMLStore(filepath.Join(t.TempDir(), "time_entries.yaml"))
}

func entryAt(id, project string, start time.Time) model.TimeEntry {
	return model.TimeEntry{ID: id, Project: project, StartTime: start}
}

func finished(e model.TimeEntry, end time.Time) model.TimeEntry {
	e.EndTime = &end
	return e
}

func TestMissingFileIsEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "time_entries.yaml")
	store := storage.NewYAMLStore(path)

	entries, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, entries)

	// First touch created the file.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_entries.yaml")
	store := storage.NewYAMLStore(path)

	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	entry := model.TimeEntry{
		ID:        "abc123",
		Project:   "work.client-a",
		Comment:   "standup notes",
		Tags:      []string{"meeting", "billable"},
		StartTime: start,
		EndTime:   &end,
	}
	require.NoError(t, store.Save(entry))

	// Reload through a fresh store so the cache plays no part.
	reloaded := storage.NewYAMLStore(path)
	got, err := reloaded.GetByID("abc123")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Project, got.Project)
	assert.Equal(t, entry.Comment, got.Comment)
	assert.Equal(t, entry.Tags, got.Tags)
	assert.True(t, got.StartTime.Equal(start))
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(end))
}

func TestSaveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_entries.yaml")
	store := storage.NewYAMLStore(path)

	entry := entryAt("e1", "work", time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(entry))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(entry))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetAllOrderedByStartTime(t *testing.T) {
	store := newStore(t)
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// Saved out of order: C (10:00), A (08:00), B (09:00).
	require.NoError(t, store.Save(entryAt("c", "p", day.Add(10*time.Hour))))
	require.NoError(t, store.Save(entryAt("a", "p", day.Add(8*time.Hour))))
	require.NoError(t, store.Save(entryAt("b", "p", day.Add(9*time.Hour))))

	all, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)
}

func TestSaveKeepsInsertionOrderOnEqualStartTimes(t *testing.T) {
	store := newStore(t)
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(entryAt("first", "p", start)))
	require.NoError(t, store.Save(entryAt("second", "p", start)))

	all, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].ID)
	assert.Equal(t, "second", all[1].ID)
}

func TestSaveUpsertsByID(t *testing.T) {
	store := newStore(t)
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	entry := entryAt("e1", "work", start)
	require.NoError(t, store.Save(entry))

	entry.Comment = "edited"
	require.NoError(t, store.Save(entry))

	all, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "edited", all[0].Comment)
}

func TestGetByProjectExactMatch(t *testing.T) {
	store := newStore(t)
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(entryAt("e1", "work", start)))
	require.NoError(t, store.Save(entryAt("e2", "workshop", start.Add(time.Hour))))
	require.NoError(t, store.Save(entryAt("e3", "work", start.Add(2*time.Hour))))

	got, err := store.GetByProject("work")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e3", got[1].ID)
}

func TestGetByIDNotFound(t *testing.T) {
	store := newStore(t)
	_, err := store.GetByID("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(entryAt("e1", "work", start)))

	deleted, err := store.Delete("e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", deleted.ID)

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = store.Delete("e1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetActiveEntry(t *testing.T) {
	store := newStore(t)
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	active, err := store.GetActiveEntry()
	require.NoError(t, err)
	assert.Nil(t, active)

	require.NoError(t, store.Save(finished(entryAt("done", "work", start), start.Add(time.Hour))))
	require.NoError(t, store.Save(entryAt("open", "work", start.Add(2*time.Hour))))

	active, err = store.GetActiveEntry()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "open", active.ID)
}

func TestGetActiveEntryCorruptOnTwoActive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_entries.yaml")
	content := `entries:
  - id: one
    project: work
    start_time: 2026-08-28T09:00:00Z
  - id: two
    project: home
    start_time: 2026-08-28T10:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := storage.NewYAMLStore(path)
	_, err := store.GetActiveEntry()
	var corrupt *storage.CorruptStateError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, path, corrupt.Path)
}

func TestLoadCorruptYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_entries.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries: [not, {a: timesheet"), 0o600))

	store := storage.NewYAMLStore(path)
	_, err := store.GetAll()
	var corrupt *storage.CorruptStateError
	assert.ErrorAs(t, err, &corrupt)
}

func TestLoadRejectsIncompleteEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_entries.yaml")
	content := `entries:
  - id: e1
    start_time: 2026-08-28T09:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := storage.NewYAMLStore(path)
	_, err := store.GetAll()
	var corrupt *storage.CorruptStateError
	assert.ErrorAs(t, err, &corrupt)
}

func TestFilterPreservesOrder(t *testing.T) {
	store := newStore(t)
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(finished(entryAt("b", "work", day.Add(9*time.Hour)), day.Add(10*time.Hour))))
	require.NoError(t, store.Save(finished(entryAt("a", "work", day.Add(8*time.Hour)), day.Add(9*time.Hour))))
	require.NoError(t, store.Save(finished(entryAt("x", "home", day.Add(7*time.Hour)), day.Add(8*time.Hour))))

	got, err := store.Filter(model.EntryListFilter{Projects: []string{"work"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "time_entries.yaml")
	store := storage.NewYAMLStore(path)
	require.NoError(t, store.Save(entryAt("e1", "work", time.Now())))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "time_entries.yaml", files[0].Name())
}

func TestCorruptKindSurvivesWrapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time_entries.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\tnot yaml"), 0o600))

	store := storage.NewYAMLStore(path)
	_, err := store.GetAll()
	require.Error(t, err)

	wrapped := errors.Join(err)
	var corrupt *storage.CorruptStateError
	assert.ErrorAs(t, wrapped, &corrupt)
}
