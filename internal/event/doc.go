// Package event provides the fixture model shared by the extractor and the calendar encoder.
//
// An Event has no synthetic identifier: identity is the value of all four fields, which
// lets a Set collapse the same fixture reported by both teams' schedule pages. The package
// also holds the year inference fold used to date year-less schedule rows, and a snapshot
// diff used to report which fixtures appeared or disappeared between two published feeds.
package event
