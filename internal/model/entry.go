package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry represents a single tracked interval. An entry with a nil
// EndTime is active, meaning work on its project is still in progress.
type TimeEntry struct {
	ID        string     `yaml:"id" json:"id"`
	Project   string     `yaml:"project" json:"project"`
	Comment   string     `yaml:"comment,omitempty" json:"comment,omitempty"`
	Tags      []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	StartTime time.Time  `yaml:"start_time" json:"start_time"`
	EndTime   *time.Time `yaml:"end_time,omitempty" json:"end_time,omitempty"`
}

// NewTimeEntry creates an active entry with a fresh ID. Duplicate tags are
// collapsed, keeping first-occurrence order.
func NewTimeEntry(project, comment string, tags []string, startTime time.Time) TimeEntry {
	return TimeEntry{
		ID:        uuid.NewString(),
		Project:   project,
		Comment:   comment,
		Tags:      dedupeTags(tags),
		StartTime: startTime,
	}
}

// Active reports whether the entry has no end time yet.
func (e TimeEntry) Active() bool {
	return e.EndTime == nil
}

// HasTag reports whether the entry carries the given tag.
func (e TimeEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Duration returns the tracked duration, measuring active entries up to now.
func (e TimeEntry) Duration(now time.Time) time.Duration {
	if e.EndTime != nil {
		return e.EndTime.Sub(e.StartTime)
	}
	return now.Sub(e.StartTime)
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
