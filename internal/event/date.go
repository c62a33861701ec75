package event

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidDate is returned when a row's month/day/time cannot form a real timestamp
var ErrInvalidDate = errors.New("invalid calendar date")

// fixtureDatePattern matches "M/D（曜）HH:MM" as printed in the schedule table
var fixtureDatePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})（.）(\d{2}):(\d{2})`)

// FixtureDate is a row's kick-off as printed: no year, and an hour that may
// run past 23 for games listed under the previous day
type FixtureDate struct {
	Month  int
	Day    int
	Hour   int
	Minute int
}

// ParseFixtureDate extracts the first "M/D（曜）HH:MM" occurrence from text.
// It returns false when the text does not contain one.
func ParseFixtureDate(text string) (FixtureDate, bool) {
	m := fixtureDatePattern.FindStringSubmatch(text)
	if m == nil {
		return FixtureDate{}, false
	}
	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return FixtureDate{}, false
		}
		nums[i] = n
	}
	return FixtureDate{Month: nums[0], Day: nums[1], Hour: nums[2], Minute: nums[3]}, true
}

func (d FixtureDate) String() string {
	return fmt.Sprintf("%d/%d %02d:%02d", d.Month, d.Day, d.Hour, d.Minute)
}

// YearCursor carries the last accepted timestamp while walking a schedule
// table top to bottom. It is a value: Advance returns the next cursor and
// leaves the receiver untouched.
type YearCursor struct {
	last time.Time
}

// NewYearCursor seeds a cursor at January 1st, 00:00 of now's year
func NewYearCursor(now time.Time) YearCursor {
	return YearCursor{last: time.Date(now.In(Zone).Year(), time.January, 1, 0, 0, 0, 0, Zone)}
}

// Last returns the last accepted timestamp
func (c YearCursor) Last() time.Time {
	return c.last
}

// Advance dates d relative to the cursor. A month smaller than the last
// accepted month means the table crossed into the next year; a candidate that
// still lands before the last accepted timestamp is moved one year past it.
// On ErrInvalidDate the returned cursor is unchanged.
func (c YearCursor) Advance(d FixtureDate) (time.Time, YearCursor, error) {
	year := c.last.Year()
	if time.Month(d.Month) < c.last.Month() {
		year++
	}

	t, err := compose(year, d)
	if err != nil {
		return time.Time{}, c, err
	}

	if t.Before(c.last) {
		t, err = compose(c.last.Year()+1, d)
		if err != nil {
			return time.Time{}, c, err
		}
	}

	return t, YearCursor{last: t}, nil
}

// compose builds the timestamp for d in year. Hours of 24 and above keep
// hour mod 24 and move to the following day.
func compose(year int, d FixtureDate) (time.Time, error) {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Hour < 0 || d.Minute < 0 || d.Minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}

	// time.Date normalises overflow, so a changed month or day means the date doesn't exist
	day := time.Date(year, time.Month(d.Month), d.Day, 0, 0, 0, 0, Zone)
	if day.Month() != time.Month(d.Month) || day.Day() != d.Day {
		return time.Time{}, fmt.Errorf("%w: %d-%s", ErrInvalidDate, year, d)
	}

	t := time.Date(year, time.Month(d.Month), d.Day, d.Hour%24, d.Minute, 0, 0, Zone)
	if d.Hour >= 24 {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
