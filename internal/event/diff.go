package event

// Snapshot is the set of fixtures that went into a published feed
type Snapshot struct {
	Events    []*Event `json:"events"`
	UpdatedAt string   `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events: make([]*Event, 0),
	}
}

// CreateSnapshot creates a snapshot from a list of events
func CreateSnapshot(events []*Event, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	snap.Events = append(snap.Events, events...)
	SortByStart(snap.Events)
	return snap
}

// DiffResult contains the fixtures that differ between two feeds
type DiffResult struct {
	Added   []*Event
	Removed []*Event
}

// Changed reports whether the feeds differ at all
func (d *DiffResult) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Diff compares the current fixtures against the previous snapshot. A fixture
// whose kick-off moved shows up once as removed and once as added.
func Diff(previous *Snapshot, current []*Event) *DiffResult {
	result := &DiffResult{
		Added:   make([]*Event, 0),
		Removed: make([]*Event, 0),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	before := NewSet()
	before.Add(previous.Events...)
	after := NewSet()
	after.Add(current...)

	for _, evt := range after.Events() {
		if !before.Contains(evt) {
			result.Added = append(result.Added, evt)
		}
	}
	for _, evt := range before.Events() {
		if !after.Contains(evt) {
			result.Removed = append(result.Removed, evt)
		}
	}

	return result
}
