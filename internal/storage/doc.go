// Package storage provides JSON-based persistence for teams and feed snapshots.
//
// The storage package is the file-backed implementation of the repository
// interfaces, used when no database is configured. Teams live in teams.json and
// the fixtures of the last published feed in snapshot_<key>.json, so the next
// run can report which fixtures were added or removed. The default storage
// location is ~/.local/share/football-ical/.
package storage
