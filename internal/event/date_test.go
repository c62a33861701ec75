package event

import (
	"errors"
	"testing"
	"time"
)

func TestParseFixtureDate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   FixtureDate
		wantOK bool
	}{
		{
			name:   "evening kick-off",
			text:   "7/2（水）19:00",
			want:   FixtureDate{Month: 7, Day: 2, Hour: 19, Minute: 0},
			wantOK: true,
		},
		{
			name:   "zero padded day",
			text:   "6/01（日）25:30",
			want:   FixtureDate{Month: 6, Day: 1, Hour: 25, Minute: 30},
			wantOK: true,
		},
		{
			name:   "surrounding text",
			text:   "第20節 12/14（土）14:00 予定",
			want:   FixtureDate{Month: 12, Day: 14, Hour: 14, Minute: 0},
			wantOK: true,
		},
		{
			name:   "time not decided",
			text:   "8/10（日）未定",
			wantOK: false,
		},
		{
			name:   "ascii parentheses",
			text:   "8/10(日)19:00",
			wantOK: false,
		},
		{
			name:   "empty",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFixtureDate(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseFixtureDate(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseFixtureDate(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewYearCursor(t *testing.T) {
	now := time.Date(2025, 10, 19, 12, 0, 0, 0, Zone)
	got := NewYearCursor(now).Last()
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, Zone)
	if !got.Equal(want) {
		t.Errorf("NewYearCursor().Last() = %v, want %v", got, want)
	}
}

// advanceAll folds dates through a fresh cursor and returns the accepted timestamps
func advanceAll(t *testing.T, now time.Time, dates []FixtureDate) []time.Time {
	t.Helper()
	cursor := NewYearCursor(now)
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		ts, next, err := cursor.Advance(d)
		if err != nil {
			t.Fatalf("Advance(%s) error: %v", d, err)
		}
		cursor = next
		out = append(out, ts)
	}
	return out
}

func TestYearCursor_Rollover(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, Zone)
	dates := []FixtureDate{
		{Month: 10, Day: 5, Hour: 15, Minute: 0},
		{Month: 11, Day: 30, Hour: 14, Minute: 0},
		{Month: 12, Day: 14, Hour: 19, Minute: 0},
		{Month: 1, Day: 18, Hour: 13, Minute: 0},
		{Month: 2, Day: 1, Hour: 13, Minute: 0},
	}
	wantYears := []int{2025, 2025, 2025, 2026, 2026}

	got := advanceAll(t, now, dates)
	for i, ts := range got {
		if ts.Year() != wantYears[i] {
			t.Errorf("row %d (%s) year = %d, want %d", i, dates[i], ts.Year(), wantYears[i])
		}
		if i > 0 && ts.Before(got[i-1]) {
			t.Errorf("row %d (%v) is earlier than row %d (%v)", i, ts, i-1, got[i-1])
		}
	}
}

func TestYearCursor_PastMidnight(t *testing.T) {
	now := time.Date(2025, 5, 20, 0, 0, 0, 0, Zone)
	got := advanceAll(t, now, []FixtureDate{{Month: 6, Day: 1, Hour: 25, Minute: 30}})

	want := time.Date(2025, 6, 2, 1, 30, 0, 0, Zone)
	if !got[0].Equal(want) {
		t.Errorf("25:30 on 6/01 = %v, want %v", got[0], want)
	}
}

func TestYearCursor_PastMidnightAtMonthEnd(t *testing.T) {
	now := time.Date(2025, 5, 20, 0, 0, 0, 0, Zone)
	got := advanceAll(t, now, []FixtureDate{{Month: 12, Day: 31, Hour: 24, Minute: 15}})

	want := time.Date(2026, 1, 1, 0, 15, 0, 0, Zone)
	if !got[0].Equal(want) {
		t.Errorf("24:15 on 12/31 = %v, want %v", got[0], want)
	}
}

func TestYearCursor_RepairWithinSameMonth(t *testing.T) {
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, Zone)
	dates := []FixtureDate{
		{Month: 3, Day: 20, Hour: 19, Minute: 0},
		// Same month as the previous row but earlier: only the repair branch can date this
		{Month: 3, Day: 5, Hour: 19, Minute: 0},
	}

	got := advanceAll(t, now, dates)
	want := time.Date(2026, 3, 5, 19, 0, 0, 0, Zone)
	if !got[1].Equal(want) {
		t.Errorf("repaired row = %v, want %v", got[1], want)
	}
}

func TestYearCursor_InvalidDate(t *testing.T) {
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, Zone)

	tests := []struct {
		name string
		date FixtureDate
	}{
		{"day 31 in a 30-day month", FixtureDate{Month: 6, Day: 31, Hour: 19, Minute: 0}},
		{"february 29 in a common year", FixtureDate{Month: 2, Day: 29, Hour: 19, Minute: 0}},
		{"month 13", FixtureDate{Month: 13, Day: 1, Hour: 19, Minute: 0}},
		{"month 0", FixtureDate{Month: 0, Day: 1, Hour: 19, Minute: 0}},
		{"day 0", FixtureDate{Month: 5, Day: 0, Hour: 19, Minute: 0}},
		{"minute 75", FixtureDate{Month: 5, Day: 1, Hour: 19, Minute: 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := NewYearCursor(now)
			_, next, err := cursor.Advance(tt.date)
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("Advance(%s) error = %v, want ErrInvalidDate", tt.date, err)
			}
			if !next.Last().Equal(cursor.Last()) {
				t.Errorf("cursor moved to %v on an invalid date", next.Last())
			}
		})
	}
}

func TestYearCursor_LeapDay(t *testing.T) {
	now := time.Date(2028, 1, 5, 0, 0, 0, 0, Zone)
	got := advanceAll(t, now, []FixtureDate{{Month: 2, Day: 29, Hour: 19, Minute: 0}})

	want := time.Date(2028, 2, 29, 19, 0, 0, 0, Zone)
	if !got[0].Equal(want) {
		t.Errorf("leap day = %v, want %v", got[0], want)
	}
}

func TestYearCursor_IsValue(t *testing.T) {
	cursor := NewYearCursor(time.Date(2025, 1, 5, 0, 0, 0, 0, Zone))
	seed := cursor.Last()

	if _, _, err := cursor.Advance(FixtureDate{Month: 9, Day: 1, Hour: 19, Minute: 0}); err != nil {
		t.Fatalf("Advance() error: %v", err)
	}
	if !cursor.Last().Equal(seed) {
		t.Errorf("Advance() mutated the receiver: Last() = %v, want %v", cursor.Last(), seed)
	}
}
