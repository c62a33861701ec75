package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/football-ical/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	// SortNone keeps the order the fixtures appear on the page
	SortNone          SortOrder = ""
	SortByDate        SortOrder = "date"
	SortBySummary     SortOrder = "summary"
	SortByDescription SortOrder = "description"
)

func validSortOrder(o SortOrder) bool {
	switch o {
	case SortNone, SortByDate, SortBySummary, SortByDescription:
		return true
	}
	return false
}

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return event.Less(events[i], events[j])
		})
	case SortBySummary:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Summary != events[j].Summary {
				return strings.ToLower(events[i].Summary) < strings.ToLower(events[j].Summary)
			}
			// If summaries are equal, sort by date
			return events[i].StartAt.Before(events[j].StartAt)
		})
	case SortByDescription:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Description != events[j].Description {
				return events[i].Description < events[j].Description
			}
			return events[i].StartAt.Before(events[j].StartAt)
		})
	}
}
