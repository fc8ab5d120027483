package msgraph_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigyehq/sigye/internal/msgraph"
	"github.com/sigyehq/sigye/internal/storage"
)

func makeEvent(id, subject, start, end string) msgraph.CalendarEvent {
	return msgraph.CalendarEvent{
		ID:          id,
		Subject:     subject,
		IsAllDay:    false,
		IsCancelled: false,
		Sensitivity: "normal",
		ShowAs:      "busy",
		Start: struct {
			DateTime string `json:"dateTime"`
			TimeZone string `json:"timeZone"`
		}{DateTime: start, TimeZone: "UTC"},
		End: struct {
			DateTime string `json:"dateTime"`
			TimeZone string `json:"timeZone"`
		}{DateTime: end, TimeZone: "UTC"},
	}
}

func TestMapEventToEntry(t *testing.T) {
	event := makeEvent("ext-1", "Sprint Planning", "2026-02-27T09:00:00", "2026-02-27T10:30:00")

	entry, err := msgraph.MapEventToEntry(event, "UTC", "Meetings")
	require.NoError(t, err)
	assert.Equal(t, "Meetings", entry.Project)
	assert.Equal(t, "Sprint Planning", entry.Comment)
	assert.True(t, entry.HasTag(msgraph.ImportTag))
	require.NotNil(t, entry.EndTime)
	assert.Equal(t, 90*time.Minute, entry.EndTime.Sub(entry.StartTime))
	assert.NotEmpty(t, entry.ID)
}

func TestMapEventToEntryWithBodyAndLocation(t *testing.T) {
	event := makeEvent("ext-2", "Standup", "2026-02-27T10:00:00", "2026-02-27T10:15:00")
	event.BodyPreview = "Daily standup"
	event.Location.DisplayName = "Zoom"

	entry, err := msgraph.MapEventToEntry(event, "UTC", "Meetings")
	require.NoError(t, err)
	assert.Equal(t, "Standup\nDaily standup\nZoom", entry.Comment)
}

func TestSyncEventsImport(t *testing.T) {
	store := storage.NewYAMLStore(filepath.Join(t.TempDir(), "time_entries.yaml"))
	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}

	result, err := msgraph.SyncEvents(store, events, msgraph.SyncOptions{Project: "Meetings"}, "UTC")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)

	all, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Meetings", all[0].Project)
	assert.False(t, all[0].Active())
}

func TestSyncEventsSkipsDuplicates(t *testing.T) {
	store := storage.NewYAMLStore(filepath.Join(t.TempDir(), "time_entries.yaml"))
	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}
	opts := msgraph.SyncOptions{Project: "Meetings"}

	_, err := msgraph.SyncEvents(store, events, opts, "UTC")
	require.NoError(t, err)

	// Second run over the same events imports nothing.
	result, err := msgraph.SyncEvents(store, events, opts, "UTC")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSyncEventsSkipRules(t *testing.T) {
	store := storage.NewYAMLStore(filepath.Join(t.TempDir(), "time_entries.yaml"))

	cancelled := makeEvent("c", "Cancelled", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
	cancelled.IsCancelled = true

	allDay := makeEvent("a", "Offsite", "2026-02-27T00:00:00", "2026-02-28T00:00:00")
	allDay.IsAllDay = true

	private := makeEvent("p", "Doctor", "2026-02-27T11:00:00", "2026-02-27T12:00:00")
	private.Sensitivity = "private"

	free := makeEvent("f", "Lunch hold", "2026-02-27T12:00:00", "2026-02-27T13:00:00")
	free.ShowAs = "free"

	result, err := msgraph.SyncEvents(store,
		[]msgraph.CalendarEvent{cancelled, allDay, private, free},
		msgraph.SyncOptions{Project: "Meetings"}, "UTC")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Errors)

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSyncEventsDryRun(t *testing.T) {
	store := storage.NewYAMLStore(filepath.Join(t.TempDir(), "time_entries.yaml"))
	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Planning", "2026-02-27T09:00:00", "2026-02-27T10:00:00"),
	}

	result, err := msgraph.SyncEvents(store, events,
		msgraph.SyncOptions{Project: "Meetings", DryRun: true}, "UTC")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParseGraphTimeFormats(t *testing.T) {
	// Exercised through MapEventToEntry: fractional-second Graph times and
	// RFC3339 both parse.
	event := makeEvent("x", "Fractional", "2026-02-27T09:00:00.0000000", "2026-02-27T09:30:00.0000000")
	entry, err := msgraph.MapEventToEntry(event, "UTC", "Meetings")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, entry.EndTime.Sub(entry.StartTime))

	event = makeEvent("y", "Zoned", "2026-02-27T09:00:00+09:00", "2026-02-27T10:00:00+09:00")
	entry, err = msgraph.MapEventToEntry(event, "Asia/Seoul", "Meetings")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, entry.EndTime.Sub(entry.StartTime))

	event = makeEvent("z", "Bad", "not-a-time", "2026-02-27T10:00:00")
	_, err = msgraph.MapEventToEntry(event, "UTC", "Meetings")
	assert.Error(t, err)
}
