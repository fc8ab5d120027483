// Package output renders entries for the terminal. The text format groups
// entries by day; json, yaml and csv are meant for piping into other tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sigyehq/sigye/internal/model"
	"github.com/sigyehq/sigye/internal/timeutil"
)

// Format selects the rendering for a list or a single entry.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ValidFormat reports whether f is a known output format. The empty string
// means "use the default".
func ValidFormat(f Format) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV, "":
		return true
	}
	return false
}

// Printer writes rendered entries to a writer using locale-aware messages.
type Printer struct {
	w   io.Writer
	msg messages
}

// NewPrinter creates a printer for the given locale ("" falls back to
// English).
func NewPrinter(w io.Writer, locale string) *Printer {
	return &Printer{w: w, msg: messagesFor(locale)}
}

// NoActiveEntry prints the idle-status message.
func (p *Printer) NoActiveEntry() {
	fmt.Fprintln(p.w, p.msg.noActiveEntry)
}

// Entry renders a single entry in the given format.
func (p *Printer) Entry(e model.TimeEntry, format Format) error {
	switch format {
	case FormatJSON:
		return p.renderJSON(e)
	case FormatYAML:
		return p.renderYAML(e)
	case FormatCSV:
		return p.renderCSV([]model.TimeEntry{e})
	default:
		p.textEntry(e)
		return nil
	}
}

// List renders entries in the given format, preserving their order.
func (p *Printer) List(entries []model.TimeEntry, format Format) error {
	switch format {
	case FormatJSON:
		return p.renderJSON(entries)
	case FormatYAML:
		return p.renderYAML(struct {
			Entries []model.TimeEntry `yaml:"entries"`
		}{entries})
	case FormatCSV:
		return p.renderCSV(entries)
	default:
		p.textList(entries)
		return nil
	}
}

// textEntry prints one entry with labeled fields.
func (p *Printer) textEntry(e model.TimeEntry) {
	fmt.Fprintf(p.w, "%s  %s\n", shortID(e.ID), e.Project)
	fmt.Fprintf(p.w, "  %s: %s\n", p.msg.startLabel, e.StartTime.Format("2006-01-02 15:04"))
	if e.EndTime != nil {
		fmt.Fprintf(p.w, "  %s: %s\n", p.msg.endLabel, e.EndTime.Format("2006-01-02 15:04"))
		fmt.Fprintf(p.w, "  %s: %s\n", p.msg.durationLabel, timeutil.FormatDuration(e.EndTime.Sub(e.StartTime)))
	} else {
		fmt.Fprintf(p.w, "  %s: %s\n", p.msg.endLabel, p.msg.ongoing)
	}
	if e.Comment != "" {
		fmt.Fprintf(p.w, "  %s: %s\n", p.msg.commentLabel, e.Comment)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(p.w, "  %s: %s\n", p.msg.tagsLabel, strings.Join(e.Tags, ", "))
	}
}

// textList groups entries by calendar day.
func (p *Printer) textList(entries []model.TimeEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, p.msg.noEntries)
		return
	}

	var currentDay string
	for _, e := range entries {
		day := e.StartTime.Format("2006-01-02")
		if day != currentDay {
			fmt.Fprintln(p.w, day)
			currentDay = day
		}

		endStr := p.msg.ongoing
		durStr := ""
		if e.EndTime != nil {
			endStr = e.EndTime.Format("15:04")
			durStr = fmt.Sprintf("  (%s)", timeutil.FormatDuration(e.EndTime.Sub(e.StartTime)))
		}

		line := fmt.Sprintf("  %s  %s–%s  %s%s",
			shortID(e.ID), e.StartTime.Format("15:04"), endStr, e.Project, durStr)
		if e.Comment != "" {
			line += "  " + e.Comment
		}
		if len(e.Tags) > 0 {
			line += "  [" + strings.Join(e.Tags, ", ") + "]"
		}
		fmt.Fprintln(p.w, line)
	}
}

func (p *Printer) renderJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func (p *Printer) renderYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	_, err = p.w.Write(data)
	return err
}

func (p *Printer) renderCSV(entries []model.TimeEntry) error {
	fmt.Fprintln(p.w, "id,project,comment,tags,start_time,end_time,duration_minutes")
	for _, e := range entries {
		endStr := ""
		durMin := int64(0)
		if e.EndTime != nil {
			endStr = e.EndTime.Format("2006-01-02T15:04:05Z07:00")
			durMin = int64(e.EndTime.Sub(e.StartTime).Minutes())
		}
		fmt.Fprintf(p.w, "%s,%s,%s,%s,%s,%s,%d\n",
			csvEscape(e.ID),
			csvEscape(e.Project),
			csvEscape(e.Comment),
			csvEscape(strings.Join(e.Tags, ";")),
			csvEscape(e.StartTime.Format("2006-01-02T15:04:05Z07:00")),
			csvEscape(endStr),
			durMin,
		)
	}
	return nil
}

// shortID truncates an id for display; full ids stay available through the
// json/yaml formats.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
