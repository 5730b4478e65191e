// Package events reads caller-supplied calendar events from files. It only
// produces calendar.Event values; placing them on days is left to the
// calendar package.
package events

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/lululau/calgrid/internal/calendar"
	appLog "github.com/lululau/calgrid/internal/log"
)

// Format names a supported file layout.
type Format string

const (
	FormatICS  Format = "ics"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported events file format")

// FormatOf picks the format from path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ics", ".ical":
		return FormatICS, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads the events in path. Date strings without a zone are read in loc.
func Load(path string, loc *time.Location) ([]calendar.Event, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}
	evs, err := Parse(format, data, loc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	appLog.Info("events loaded", "path", path, "format", string(format), "count", len(evs))
	return evs, nil
}

// Parse decodes data in the given format. Entries whose date cannot be read
// are skipped and logged; a malformed document is an error.
func Parse(format Format, data []byte, loc *time.Location) ([]calendar.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	switch format {
	case FormatICS:
		return parseICS(data, loc)
	case FormatYAML:
		return parseYAML(data, loc)
	case FormatJSON:
		return parseJSON(data, loc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// record is the shared shape of YAML and JSON entries.
type record struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Location    string `yaml:"location"`
	Date        string `yaml:"date"`
}

func (r record) event(loc *time.Location) (calendar.Event, error) {
	date, allDay, err := ParseDate(r.Date, loc)
	if err != nil {
		return calendar.Event{}, err
	}
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	return calendar.Event{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Date:        date,
		AllDay:      allDay,
	}, nil
}

// ParseDate reads a free-form date such as "2024-02-10T08:00",
// "2024-02-10" or "Feb 10, 2024 8am". A value that names no time of day is
// an all-day date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, errors.New("empty date")
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("date %q: %w", s, err)
	}
	allDay := !strings.Contains(s, ":") && t.Equal(calendar.StartOfDay(t))
	return t, allDay, nil
}

func collect(records []record, loc *time.Location) []calendar.Event {
	out := make([]calendar.Event, 0, len(records))
	for i, r := range records {
		ev, err := r.event(loc)
		if err != nil {
			appLog.Error("skipping event", err, "index", i, "title", r.Title)
			continue
		}
		out = append(out, ev)
	}
	return out
}

// parseYAML accepts either a top-level list or a document with an "events"
// list.
func parseYAML(data []byte, loc *time.Location) ([]calendar.Event, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return []calendar.Event{}, nil
	}

	var records []record
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&records); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var wrapped struct {
			Events []record `yaml:"events"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, err
		}
		records = wrapped.Events
	default:
		return nil, errors.New("expected a list of events")
	}
	return collect(records, loc), nil
}

// parseJSON mirrors parseYAML: a top-level array or {"events": [...]}.
func parseJSON(data []byte, loc *time.Location) ([]calendar.Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	list := gjson.ParseBytes(data)
	if !list.IsArray() {
		list = list.Get("events")
	}
	if !list.IsArray() {
		return nil, errors.New("expected a list of events")
	}

	var records []record
	list.ForEach(func(_, v gjson.Result) bool {
		records = append(records, record{
			ID:          v.Get("id").String(),
			Title:       v.Get("title").String(),
			Description: v.Get("description").String(),
			Location:    v.Get("location").String(),
			Date:        v.Get("date").String(),
		})
		return true
	})
	return collect(records, loc), nil
}

func parseICS(data []byte, loc *time.Location) ([]calendar.Event, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out := make([]calendar.Event, 0)
	for _, ve := range cal.Events() {
		ev, err := icsEvent(ve, loc)
		if err != nil {
			appLog.Error("skipping vevent", err, "uid", uid(ve))
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func icsEvent(ve *ical.VEvent, loc *time.Location) (calendar.Event, error) {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return calendar.Event{}, errors.New("missing DTSTART")
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return calendar.Event{}, err
	}

	// A DATE value (no clock) is an all-day event; keep its calendar date
	// rather than shifting UTC midnight into loc.
	allDay := !strings.Contains(dtStart.Value, "T")
	if allDay {
		y, m, d := start.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	} else {
		start = start.In(loc)
	}

	ev := calendar.Event{ID: uid(ve), Date: start, AllDay: allDay}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}
	return ev, nil
}

func uid(ve *ical.VEvent) string {
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		return p.Value
	}
	return ""
}
