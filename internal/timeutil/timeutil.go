// Package timeutil holds the calendar math shared by the tracking service
// and the CLI: period shorthand resolution, time-of-day parsing and
// duration formatting.
package timeutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/sigyehq/sigye/internal/model"
)

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns 00:00:00 of the Monday of the ISO week containing t.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	return StartOfDay(monday)
}

// StartOfMonth returns 00:00:00 of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// PeriodRange resolves a time-period shorthand into inclusive date bounds
// relative to now. "all" and the empty period leave both bounds unset.
func PeriodRange(p model.TimePeriod, now time.Time) (start, end *time.Time) {
	today := StartOfDay(now)
	switch p {
	case model.PeriodToday:
		return &today, &today
	case model.PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return &y, &y
	case model.PeriodWeek:
		w := StartOfWeek(now)
		return &w, &today
	case model.PeriodMonth:
		m := StartOfMonth(now)
		return &m, &today
	default:
		return nil, nil
	}
}

// timeOfDayLayouts are tried in order when parsing user-supplied times.
var timeOfDayLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05PM",
	"3:04PM",
	"3PM",
}

// ParseTimeOfDay parses a wall-clock time like "09:30", "17:00:30" or
// "5:15PM" and anchors it on now's calendar date and location.
func ParseTimeOfDay(s string, now time.Time) (time.Time, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, normalized)
		if err != nil {
			continue
		}
		return time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format %q (expected HH:MM, HH:MM:SS or AM/PM)", s)
}

// ParseDate parses a YYYY-MM-DD date in the local location.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDuration formats a duration as a human-readable string like
// "1h 40m" or "45m" or "30s".
func FormatDuration(d time.Duration) string {
	seconds := int64(d.Seconds())
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats a duration as HH:MM:SS.
func FormatDurationHHMMSS(d time.Duration) string {
	seconds := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
