package msgraph

import (
	"fmt"
	"strings"
	"time"

	"github.com/sigyehq/sigye/internal/model"
	"github.com/sigyehq/sigye/internal/storage"
	"github.com/sigyehq/sigye/internal/timeutil"
)

// ImportTag marks entries created from calendar events.
const ImportTag = "outlook"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	DryRun  bool
	Project string
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone
// suffix when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildComment combines subject, bodyPreview and location into the entry
// comment.
func buildComment(event CalendarEvent) string {
	parts := []string{}
	if event.Subject != "" {
		parts = append(parts, event.Subject)
	}
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, event.Location.DisplayName)
	}
	return strings.Join(parts, "\n")
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// MapEventToEntry converts a Graph CalendarEvent into a closed time entry
// tagged with ImportTag.
func MapEventToEntry(event CalendarEvent, timezone, project string) (model.TimeEntry, error) {
	startTime, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing end time: %w", err)
	}

	entry := model.NewTimeEntry(project, buildComment(event), []string{ImportTag}, startTime)
	entry.EndTime = &endTime
	return entry, nil
}

// alreadyImported reports whether an equivalent imported entry exists:
// same project and the same closed interval.
func alreadyImported(existing []model.TimeEntry, entry model.TimeEntry) bool {
	for _, e := range existing {
		if e.Project != entry.Project || !e.HasTag(ImportTag) {
			continue
		}
		if e.EndTime == nil || entry.EndTime == nil {
			continue
		}
		if e.StartTime.Equal(entry.StartTime) && e.EndTime.Equal(*entry.EndTime) {
			return true
		}
	}
	return false
}

// SyncEvents maps a slice of Graph events onto the store, skipping events
// that are already present. It prints progress to stdout and returns a
// SyncResult.
func SyncEvents(store storage.Store, events []CalendarEvent, opts SyncOptions, timezone string) (SyncResult, error) {
	var result SyncResult

	existing, err := store.GetAll()
	if err != nil {
		return result, err
	}

	for _, event := range events {
		if shouldSkip(event) {
			continue
		}

		entry, err := MapEventToEntry(event, timezone, opts.Project)
		if err != nil {
			fmt.Printf("  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		if alreadyImported(existing, entry) {
			fmt.Printf("  – Skipped:  %s (already exists)\n", event.Subject)
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if err := store.Save(entry); err != nil {
				fmt.Printf("  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		existing = append(existing, entry)
		fmt.Printf("  ✓ Imported: %s (%s)\n", event.Subject,
			timeutil.FormatDuration(entry.EndTime.Sub(entry.StartTime)))
		result.Imported++
	}

	return result, nil
}
