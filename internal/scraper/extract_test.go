package scraper

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/football-ical/internal/event"
)

// scheduleRow describes one table row for buildPage. Empty optional cells are
// rendered empty; the omit flags leave the cell out entirely.
type scheduleRow struct {
	status    string
	date      string
	teams     []string
	venue     string
	category  string
	omitScore bool
	omitDate  bool
	omitVenue bool
	omitCat   bool
}

func buildPage(name string, rows ...scheduleRow) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	if name != "" {
		fmt.Fprintf(&b, `<h1><span class="sc-teamTitle__name">%s</span></h1>`, name)
	}
	b.WriteString(`<div id="scheduleTable"><table><tbody>`)
	for _, r := range rows {
		b.WriteString("<tr>")
		if !r.omitDate {
			fmt.Fprintf(&b, `<td class="sc-tableGame__data sc-tableGame__data--date">%s</td>`, r.date)
		}
		b.WriteString(`<td class="sc-tableGame__data sc-tableGame__data--team">`)
		for _, team := range r.teams {
			fmt.Fprintf(&b, `<a class="sc-tableGame__team"><span><img alt=""></span><span> %s </span></a>`, team)
		}
		b.WriteString("</td>")
		if !r.omitScore {
			fmt.Fprintf(&b, `<td class="sc-tableGame__data sc-tableGame__data--score"><span>%s</span></td>`, r.status)
		}
		if !r.omitVenue {
			fmt.Fprintf(&b, `<td class="sc-tableGame__data sc-tableGame__data--venue"> %s </td>`, r.venue)
		}
		if !r.omitCat {
			fmt.Fprintf(&b, `<td class="sc-tableGame__data sc-tableGame__data--category"><span>%s</span><span>第1節</span></td>`, r.category)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></div></body></html>")
	return b.String()
}

func upcoming(date, home, away string) scheduleRow {
	return scheduleRow{
		status:   "試合前",
		date:     date,
		teams:    []string{home, away},
		venue:    "ノエスタ",
		category: "J1リーグ",
	}
}

func TestExtract_Fixture(t *testing.T) {
	f, err := os.Open("../../testdata/fixtures/schedule.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	defer f.Close()

	now := time.Date(2025, 4, 20, 9, 0, 0, 0, event.Zone)
	result, err := Extract(f, now)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if result.Name != "ヴィッセル神戸" {
		t.Errorf("Name = %q, want %q", result.Name, "ヴィッセル神戸")
	}
	if len(result.Events) != 10 {
		t.Fatalf("got %d events, want 10", len(result.Events))
	}

	last := result.Events[len(result.Events)-1]
	wantStart := time.Date(2025, 7, 2, 19, 0, 0, 0, event.Zone)
	if !last.StartAt.Equal(wantStart) {
		t.Errorf("last StartAt = %v, want %v", last.StartAt, wantStart)
	}
	if last.Summary != "神戸 - 広島" {
		t.Errorf("last Summary = %q, want %q", last.Summary, "神戸 - 広島")
	}
	if venue, ok := last.Venue(); !ok || venue != "ノエスタ" {
		t.Errorf("last Location = %q (present %v), want %q", venue, ok, "ノエスタ")
	}
	if last.Description != "J1リーグ" {
		t.Errorf("last Description = %q, want %q", last.Description, "J1リーグ")
	}

	for _, evt := range result.Events {
		if evt.Description == "天皇杯" {
			if _, ok := evt.Venue(); ok {
				t.Errorf("天皇杯 fixture has a location, want none for a blank venue cell")
			}
		}
	}

	skipped := result.Skipped()
	if skipped[SkipCompleted] != 3 {
		t.Errorf("completed rows skipped = %d, want 3", skipped[SkipCompleted])
	}
	if skipped[SkipDateFormat] != 1 {
		t.Errorf("unparseable date rows skipped = %d, want 1", skipped[SkipDateFormat])
	}
}

func TestExtract(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, event.Zone)

	tests := []struct {
		name        string
		page        string
		wantSummary []string
		wantStarts  []time.Time
		wantSkips   []SkipReason
		wantErr     error
	}{
		{
			name: "season rolls over into next year",
			page: buildPage("神戸",
				upcoming("11/30（日）14:00", "神戸", "鹿島"),
				upcoming("12/14（日）19:00", "浦和", "神戸"),
				upcoming("1/18（日）13:00", "神戸", "柏"),
			),
			wantSummary: []string{"神戸 - 鹿島", "浦和 - 神戸", "神戸 - 柏"},
			wantStarts: []time.Time{
				time.Date(2025, 11, 30, 14, 0, 0, 0, event.Zone),
				time.Date(2025, 12, 14, 19, 0, 0, 0, event.Zone),
				time.Date(2026, 1, 18, 13, 0, 0, 0, event.Zone),
			},
			wantSkips: []SkipReason{Kept, Kept, Kept},
		},
		{
			name: "kick-off after midnight",
			page: buildPage("神戸",
				upcoming("6/01（日）25:30", "神戸", "広島"),
			),
			wantSummary: []string{"神戸 - 広島"},
			wantStarts:  []time.Time{time.Date(2025, 6, 2, 1, 30, 0, 0, event.Zone)},
			wantSkips:   []SkipReason{Kept},
		},
		{
			name: "malformed rows are skipped without aborting",
			page: buildPage("神戸",
				upcoming("8/10（日）未定", "神戸", "柏"),
				upcoming("6/31（火）19:00", "神戸", "柏"),
				scheduleRow{omitDate: true, status: "試合前", teams: []string{"神戸", "柏"}, category: "J1リーグ"},
				upcoming("8/16（土）19:00", "神戸", "新潟"),
			),
			wantSummary: []string{"神戸 - 新潟"},
			wantStarts:  []time.Time{time.Date(2025, 8, 16, 19, 0, 0, 0, event.Zone)},
			wantSkips:   []SkipReason{SkipDateFormat, SkipInvalidDate, SkipNoDate, Kept},
		},
		{
			name: "every fixture already played",
			page: buildPage("神戸",
				scheduleRow{status: "試合終了", date: "3/1（土）15:00", teams: []string{"神戸", "新潟"}, category: "J1リーグ"},
				scheduleRow{status: "試合終了", date: "3/8（土）15:00", teams: []string{"柏", "神戸"}, omitCat: true},
			),
			wantSummary: []string{},
			wantSkips:   []SkipReason{SkipCompleted, SkipCompleted},
		},
		{
			name: "row without score cell is kept",
			page: buildPage("神戸",
				scheduleRow{omitScore: true, date: "9/13（土）18:00", teams: []string{"神戸", "町田"}, venue: "ノエスタ", category: "J1リーグ"},
			),
			wantSummary: []string{"神戸 - 町田"},
			wantStarts:  []time.Time{time.Date(2025, 9, 13, 18, 0, 0, 0, event.Zone)},
			wantSkips:   []SkipReason{Kept},
		},
		{
			name:    "missing team name",
			page:    buildPage("", upcoming("9/13（土）18:00", "神戸", "町田")),
			wantErr: ErrNotFound,
		},
		{
			name: "missing category cell on an upcoming fixture",
			page: buildPage("神戸",
				scheduleRow{status: "試合前", date: "9/13（土）18:00", teams: []string{"神戸", "町田"}, omitCat: true},
			),
			wantErr: ErrNotFound,
		},
		{
			name:        "no schedule rows",
			page:        buildPage("神戸"),
			wantSummary: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractString(tt.page, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}

			if result.Events == nil {
				t.Fatal("Events is nil, want an empty slice")
			}
			if len(result.Events) != len(tt.wantSummary) {
				t.Fatalf("got %d events, want %d", len(result.Events), len(tt.wantSummary))
			}
			for i, evt := range result.Events {
				if evt.Summary != tt.wantSummary[i] {
					t.Errorf("event %d Summary = %q, want %q", i, evt.Summary, tt.wantSummary[i])
				}
				if i < len(tt.wantStarts) && !evt.StartAt.Equal(tt.wantStarts[i]) {
					t.Errorf("event %d StartAt = %v, want %v", i, evt.StartAt, tt.wantStarts[i])
				}
			}

			if len(result.Rows) != len(tt.wantSkips) {
				t.Fatalf("got %d row results, want %d", len(result.Rows), len(tt.wantSkips))
			}
			for i, row := range result.Rows {
				if row.Skip != tt.wantSkips[i] {
					t.Errorf("row %d Skip = %q, want %q", i, row.Skip, tt.wantSkips[i])
				}
			}
		})
	}
}

func TestExtract_Location(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, event.Zone)

	withVenue := upcoming("9/13（土）18:00", "神戸", "町田")
	blankVenue := upcoming("9/20（土）18:00", "神戸", "柏")
	blankVenue.venue = ""
	noVenue := upcoming("9/27（土）18:00", "神戸", "湘南")
	noVenue.omitVenue = true

	result, err := ExtractString(buildPage("神戸", withVenue, blankVenue, noVenue), now)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(result.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(result.Events))
	}

	if venue, ok := result.Events[0].Venue(); !ok || venue != "ノエスタ" {
		t.Errorf("venue = %q (present %v), want trimmed %q", venue, ok, "ノエスタ")
	}
	for _, evt := range result.Events[1:] {
		if evt.Location != nil {
			t.Errorf("%s Location = %q, want nil", evt.Summary, *evt.Location)
		}
	}
}

func TestExtract_DescriptionIsFirstText(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, event.Zone)

	result, err := ExtractString(buildPage("神戸", upcoming("9/13（土）18:00", "神戸", "町田")), now)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got := result.Events[0].Description; got != "J1リーグ" {
		t.Errorf("Description = %q, want %q", got, "J1リーグ")
	}
}

func TestExtract_CursorIsPerCall(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, event.Zone)
	page := buildPage("神戸",
		upcoming("12/14（日）19:00", "浦和", "神戸"),
		upcoming("1/18（日）13:00", "神戸", "柏"),
	)

	first, err := ExtractString(page, now)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	second, err := ExtractString(page, now)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	for i := range first.Events {
		if first.Events[i].Key() != second.Events[i].Key() {
			t.Errorf("event %d differs between calls: %v vs %v", i, first.Events[i].StartAt, second.Events[i].StartAt)
		}
	}
}

func TestScheduleURLFrom(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{
			url:  "https://soccer.yahoo.co.jp/jleague/category/j1/teams/136/info",
			want: "https://soccer.yahoo.co.jp/jleague/category/j1/teams/136/schedule",
		},
		{
			url:  "https://soccer.yahoo.co.jp/ws/category/eng/teams/4075/info?gk=52",
			want: "https://soccer.yahoo.co.jp/ws/category/eng/teams/4075/schedule",
		},
		{
			url:  "https://soccer.yahoo.co.jp/japan/category/men/teams/142/schedule",
			want: "https://soccer.yahoo.co.jp/japan/category/men/teams/142/schedule",
		},
		{
			url:  "https://soccer.yahoo.co.jp/jleague/team/136",
			want: "https://soccer.yahoo.co.jp/jleague/team/136/schedule",
		},
		{url: "https://soccer.yahoo.co.jp/jleague/", wantErr: true},
		{url: "https://example.com/teams/136", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ScheduleURLFrom(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ScheduleURLFrom(%q) error = %v, want ErrInvalidURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScheduleURLFrom(%q) error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ScheduleURLFrom(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
