package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/football-ical/internal/event"
)

// ErrNotFound is returned when a required element is missing from a schedule page
var ErrNotFound = errors.New("required element not found")

// Selectors for the schedule page layout
const (
	TeamNameSelector = ".sc-teamTitle__name"
	RowSelector      = "#scheduleTable > table > tbody > tr"
	ScoreSelector    = "td.sc-tableGame__data.sc-tableGame__data--score"
	DateSelector     = "td.sc-tableGame__data.sc-tableGame__data--date"
	TeamSelector     = "td.sc-tableGame__data.sc-tableGame__data--team a.sc-tableGame__team > span:last-child"
	VenueSelector    = "td.sc-tableGame__data.sc-tableGame__data--venue"
	CategorySelector = "td.sc-tableGame__data.sc-tableGame__data--category"
)

// CompletionMarker marks a fixture that has already been played
const CompletionMarker = "試合終了"

// SkipReason says why a row produced no event. The empty reason means kept.
type SkipReason string

const (
	Kept            SkipReason = ""
	SkipCompleted   SkipReason = "completed"
	SkipNoDate      SkipReason = "no_date"
	SkipDateFormat  SkipReason = "date_format"
	SkipInvalidDate SkipReason = "invalid_date"
)

// RowResult is the outcome of one schedule row: either an Event or a reason
type RowResult struct {
	Index    int          `json:"index"`
	DateText string       `json:"date_text,omitempty"`
	Event    *event.Event `json:"event,omitempty"`
	Skip     SkipReason   `json:"skip,omitempty"`
}

// Result is what one schedule page yields
type Result struct {
	Name   string         `json:"name"`
	Events []*event.Event `json:"events"`
	Rows   []RowResult    `json:"-"`
}

// Skipped counts dropped rows by reason
func (r *Result) Skipped() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, row := range r.Rows {
		if row.Skip != Kept {
			counts[row.Skip]++
		}
	}
	return counts
}

// Extract parses a schedule page and returns the team name and its upcoming
// fixtures in table order. now seeds year inference; only its year is used.
func Extract(r io.Reader, now time.Time) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return ExtractDocument(doc, now)
}

// ExtractString is Extract over an in-memory page
func ExtractString(page string, now time.Time) (*Result, error) {
	return Extract(strings.NewReader(page), now)
}

// ExtractDocument is Extract over an already parsed document
func ExtractDocument(doc *goquery.Document, now time.Time) (*Result, error) {
	name := doc.Find(TeamNameSelector).First()
	if name.Length() == 0 {
		return nil, fmt.Errorf("%w: team name (%s)", ErrNotFound, TeamNameSelector)
	}

	result := &Result{
		Name:   strings.TrimSpace(name.Text()),
		Events: make([]*event.Event, 0),
	}

	cursor := event.NewYearCursor(now)
	var rowErr error
	doc.Find(RowSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		res, next, err := extractRow(row, cursor)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		cursor = next
		res.Index = i
		result.Rows = append(result.Rows, res)
		if res.Event != nil {
			result.Events = append(result.Events, res.Event)
		}
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return result, nil
}

// extractRow turns one table row into a RowResult, threading the year cursor.
// Only a missing category cell is an error; every other defect skips the row.
func extractRow(row *goquery.Selection, cursor event.YearCursor) (RowResult, event.YearCursor, error) {
	if score := row.Find(ScoreSelector).First(); score.Length() > 0 {
		if strings.Contains(score.Text(), CompletionMarker) {
			return RowResult{Skip: SkipCompleted}, cursor, nil
		}
	}

	dateCell := row.Find(DateSelector).First()
	if dateCell.Length() == 0 {
		return RowResult{Skip: SkipNoDate}, cursor, nil
	}

	dateText := joinTrimmed(textNodes(dateCell))
	date, ok := event.ParseFixtureDate(dateText)
	if !ok {
		return RowResult{DateText: dateText, Skip: SkipDateFormat}, cursor, nil
	}

	startAt, next, err := cursor.Advance(date)
	if err != nil {
		return RowResult{DateText: dateText, Skip: SkipInvalidDate}, cursor, nil
	}

	teams := make([]string, 0, 2)
	row.Find(TeamSelector).Each(func(_ int, span *goquery.Selection) {
		if name, ok := firstText(span); ok {
			teams = append(teams, name)
		}
	})

	var location *string
	if venue := row.Find(VenueSelector).First(); venue.Length() > 0 {
		if text, ok := firstText(venue); ok {
			location = &text
		}
	}

	category := row.Find(CategorySelector).First()
	if category.Length() == 0 {
		return RowResult{}, cursor, fmt.Errorf("%w: category cell (%s)", ErrNotFound, CategorySelector)
	}
	description, _ := firstText(category)

	evt := event.New(startAt, strings.Join(teams, " - "), location, description)
	return RowResult{DateText: dateText, Event: evt}, next, nil
}

// textNodes returns every descendant text node of the selection in document order
func textNodes(sel *goquery.Selection) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

func joinTrimmed(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.TrimSpace(p))
	}
	return b.String()
}

// firstText returns the first non-blank text node, trimmed
func firstText(sel *goquery.Selection) (string, bool) {
	for _, text := range textNodes(sel) {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}
