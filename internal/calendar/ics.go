package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/football-ical/internal/event"
)

const (
	DefaultProdID   = "-//football-ical//football-ical//JA"
	DefaultTZID     = "Asia/Tokyo"
	DefaultDuration = 2 * time.Hour
)

// Options configures an Encoder. Zero values fall back to the defaults.
type Options struct {
	ProdID string
	// Name is written as X-WR-CALNAME when set
	Name     string
	TZID     string
	Location *time.Location
	Duration time.Duration
	// Escape applies RFC 5545 text escaping; off by default so values are
	// written exactly as scraped
	Escape bool
}

// Encoder renders fixtures as an iCalendar document
type Encoder struct {
	opts Options
}

// New creates an Encoder
func New(opts Options) *Encoder {
	if opts.ProdID == "" {
		opts.ProdID = DefaultProdID
	}
	if opts.TZID == "" {
		opts.TZID = DefaultTZID
	}
	if opts.Location == nil {
		opts.Location = event.Zone
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	return &Encoder{opts: opts}
}

// Encode writes the calendar for events to w. Events are written in the
// order given; deduplicate with event.Set first.
func (e *Encoder) Encode(w io.Writer, events []*event.Event) error {
	if _, err := io.WriteString(w, e.Render(events)); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// Render returns the calendar for events as a string
func (e *Encoder) Render(events []*event.Event) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", e.opts.ProdID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	if e.opts.Name != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", e.text(e.opts.Name)))
	}
	e.writeTimezone(&ics)

	for _, evt := range events {
		if evt == nil {
			continue
		}
		e.writeEvent(&ics, evt)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// writeTimezone emits the single fixed-offset VTIMEZONE block
func (e *Encoder) writeTimezone(ics *strings.Builder) {
	offset := formatOffset(e.opts.Location)

	ics.WriteString("BEGIN:VTIMEZONE\r\n")
	ics.WriteString(fmt.Sprintf("TZID:%s\r\n", e.opts.TZID))
	ics.WriteString("BEGIN:STANDARD\r\n")
	ics.WriteString("DTSTART:19700101T000000\r\n")
	ics.WriteString(fmt.Sprintf("TZOFFSETFROM:%s\r\n", offset))
	ics.WriteString(fmt.Sprintf("TZOFFSETTO:%s\r\n", offset))
	ics.WriteString("END:STANDARD\r\n")
	ics.WriteString("END:VTIMEZONE\r\n")
}

func (e *Encoder) writeEvent(ics *strings.Builder, evt *event.Event) {
	start := evt.StartAt.In(e.opts.Location)
	end := start.Add(e.opts.Duration)

	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("DTSTART;TZID=%s:%s\r\n", e.opts.TZID, formatLocalTime(start)))
	ics.WriteString(fmt.Sprintf("DTEND;TZID=%s:%s\r\n", e.opts.TZID, formatLocalTime(end)))
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", e.text(evt.Summary)))
	if venue, ok := evt.Venue(); ok {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", e.text(venue)))
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", e.text(evt.Description)))
	ics.WriteString("END:VEVENT\r\n")
}

func (e *Encoder) text(s string) string {
	if e.opts.Escape {
		return escapeICS(s)
	}
	return s
}

// formatLocalTime formats wall-clock time for use with a TZID parameter
func formatLocalTime(t time.Time) string {
	return t.Format("20060102T150405")
}

// formatOffset renders the zone's offset as +HHMM
func formatOffset(loc *time.Location) string {
	_, secs := time.Date(1970, 1, 1, 0, 0, 0, 0, loc).Zone()
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("%c%02d%02d", sign, secs/3600, (secs%3600)/60)
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
