package model

import (
	"strings"
	"time"
)

// TimePeriod is a named relative date range resolved against "today" at
// query time.
type TimePeriod string

const (
	PeriodToday     TimePeriod = "today"
	PeriodYesterday TimePeriod = "yesterday"
	PeriodWeek      TimePeriod = "week"
	PeriodMonth     TimePeriod = "month"
	PeriodAll       TimePeriod = "all"
	PeriodNone      TimePeriod = ""
)

// ValidPeriod reports whether p is one of the known period shorthands.
func ValidPeriod(p TimePeriod) bool {
	switch p {
	case PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth, PeriodAll, PeriodNone:
		return true
	}
	return false
}

// EntryListFilter describes one list query. It is built per invocation and
// never persisted. Explicit StartDate/EndDate take precedence over the
// bounds derived from TimePeriod.
type EntryListFilter struct {
	TimePeriod   TimePeriod
	StartDate    *time.Time // date granularity, inclusive
	EndDate      *time.Time // date granularity, inclusive
	Tags         []string   // entry matches when it has any of these
	Projects     []string   // exact names or prefix patterns (trailing * + .)
	ID           string     // id prefix
	OutputFormat string     // presentation hint, ignored by matching
}

// Matches reports whether an entry satisfies every constraint of the filter.
// An end-date bound can only be satisfied by a finished entry: an active
// entry has no end time to compare against the upper bound.
func (f EntryListFilter) Matches(e TimeEntry) bool {
	if f.ID != "" && !strings.HasPrefix(e.ID, f.ID) {
		return false
	}
	if len(f.Projects) > 0 && !matchProject(f.Projects, e.Project) {
		return false
	}
	if f.StartDate != nil && dateKey(e.StartTime) < dateKey(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && (e.EndTime == nil || dateKey(*e.EndTime) > dateKey(*f.EndDate)) {
		return false
	}
	if len(f.Tags) > 0 && !matchAnyTag(f.Tags, e) {
		return false
	}
	return true
}

// matchProject checks a project name against a set of patterns. A pattern
// ending in '*', '+' or '.' is a prefix pattern; any other pattern must
// match exactly. A trailing '.' stays part of the prefix, so "work."
// matches "work.client-a" but not "workshop".
func matchProject(patterns []string, project string) bool {
	for _, p := range patterns {
		if p == project {
			return true
		}
		if len(p) == 0 {
			continue
		}
		switch p[len(p)-1] {
		case '*', '+':
			if strings.HasPrefix(project, p[:len(p)-1]) {
				return true
			}
		case '.':
			if strings.HasPrefix(project, p) {
				return true
			}
		}
	}
	return false
}

func matchAnyTag(tags []string, e TimeEntry) bool {
	for _, t := range tags {
		if e.HasTag(t) {
			return true
		}
	}
	return false
}

// dateKey collapses a timestamp to a comparable calendar date.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
