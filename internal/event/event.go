package event

import (
	"sort"
	"time"
)

// Zone is the fixed offset every fixture timestamp is expressed in.
// Source pages list kick-off times in Japan Standard Time, which has no DST.
var Zone = time.FixedZone("Asia/Tokyo", 9*60*60)

// Event represents a single fixture taken from a team's schedule page
type Event struct {
	StartAt     time.Time `json:"start_at"`
	Summary     string    `json:"summary"`
	Location    *string   `json:"location,omitempty"`
	Description string    `json:"description"`
}

// Key is the comparable identity of an event. Two events are the same
// fixture iff their keys are equal.
type Key struct {
	StartAt     string
	Summary     string
	HasLocation bool
	Location    string
	Description string
}

// New creates an Event. A nil location means the source had no venue.
func New(startAt time.Time, summary string, location *string, description string) *Event {
	return &Event{
		StartAt:     startAt.In(Zone),
		Summary:     summary,
		Location:    location,
		Description: description,
	}
}

// Key returns the value identity over all four fields
func (e *Event) Key() Key {
	k := Key{
		StartAt:     e.StartAt.In(Zone).Format(time.RFC3339),
		Summary:     e.Summary,
		Description: e.Description,
	}
	if e.Location != nil {
		k.HasLocation = true
		k.Location = *e.Location
	}
	return k
}

// Venue returns the location text and whether one was present
func (e *Event) Venue() (string, bool) {
	if e.Location == nil {
		return "", false
	}
	return *e.Location, true
}

// Set accumulates events from many documents, keeping one copy of each
// identical fixture
type Set struct {
	items map[Key]*Event
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{items: make(map[Key]*Event)}
}

// Add inserts events, ignoring exact duplicates. It returns how many were new.
func (s *Set) Add(events ...*Event) int {
	added := 0
	for _, evt := range events {
		if evt == nil {
			continue
		}
		k := evt.Key()
		if _, exists := s.items[k]; exists {
			continue
		}
		s.items[k] = evt
		added++
	}
	return added
}

// Contains reports whether an identical event is already in the set
func (s *Set) Contains(evt *Event) bool {
	_, ok := s.items[evt.Key()]
	return ok
}

// Len returns the number of distinct events
func (s *Set) Len() int {
	return len(s.items)
}

// Events returns the set's events in a stable order
func (s *Set) Events() []*Event {
	events := make([]*Event, 0, len(s.items))
	for _, evt := range s.items {
		events = append(events, evt)
	}
	SortByStart(events)
	return events
}

// SortByStart orders events by start time, then summary, description and
// location so output is reproducible
func SortByStart(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return Less(events[i], events[j])
	})
}

// Less reports whether a sorts before b in feed order
func Less(a, b *Event) bool {
	if !a.StartAt.Equal(b.StartAt) {
		return a.StartAt.Before(b.StartAt)
	}
	if a.Summary != b.Summary {
		return a.Summary < b.Summary
	}
	if a.Description != b.Description {
		return a.Description < b.Description
	}
	la, _ := a.Venue()
	lb, _ := b.Venue()
	return la < lb
}
