package event

import (
	"testing"
	"time"
)

func TestDiff(t *testing.T) {
	base := time.Date(2025, 7, 2, 19, 0, 0, 0, Zone)
	kept := New(base, "神戸 - 広島", strPtr("ノエスタ"), "J1リーグ")
	moved := New(base.Add(72*time.Hour), "浦和 - 神戸", nil, "J1リーグ")
	movedNew := New(base.Add(96*time.Hour), "浦和 - 神戸", nil, "J1リーグ")
	fresh := New(base.Add(240*time.Hour), "神戸 - 鹿島", strPtr("ノエスタ"), "天皇杯")

	tests := []struct {
		name        string
		previous    *Snapshot
		current     []*Event
		wantAdded   int
		wantRemoved int
	}{
		{
			name:      "no previous snapshot",
			previous:  nil,
			current:   []*Event{kept, moved},
			wantAdded: 2,
		},
		{
			name:     "unchanged",
			previous: CreateSnapshot([]*Event{kept, moved}, "2025-06-01T00:00:00Z"),
			current:  []*Event{moved, kept},
		},
		{
			name:        "kick-off moved and a fixture added",
			previous:    CreateSnapshot([]*Event{kept, moved}, "2025-06-01T00:00:00Z"),
			current:     []*Event{kept, movedNew, fresh},
			wantAdded:   2,
			wantRemoved: 1,
		},
		{
			name:        "everything removed",
			previous:    CreateSnapshot([]*Event{kept}, "2025-06-01T00:00:00Z"),
			current:     nil,
			wantRemoved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.previous, tt.current)
			if len(got.Added) != tt.wantAdded {
				t.Errorf("Diff() added = %d, want %d", len(got.Added), tt.wantAdded)
			}
			if len(got.Removed) != tt.wantRemoved {
				t.Errorf("Diff() removed = %d, want %d", len(got.Removed), tt.wantRemoved)
			}
			wantChanged := tt.wantAdded+tt.wantRemoved > 0
			if got.Changed() != wantChanged {
				t.Errorf("Changed() = %v, want %v", got.Changed(), wantChanged)
			}
		})
	}
}

func TestCreateSnapshot_Sorted(t *testing.T) {
	base := time.Date(2025, 7, 2, 19, 0, 0, 0, Zone)
	later := New(base.Add(time.Hour), "B - C", nil, "J1リーグ")
	earlier := New(base, "A - B", nil, "J1リーグ")

	snap := CreateSnapshot([]*Event{later, earlier}, "2025-06-01T00:00:00Z")
	if snap.Events[0] != earlier {
		t.Errorf("CreateSnapshot() first event = %q, want %q", snap.Events[0].Summary, earlier.Summary)
	}
	if snap.UpdatedAt != "2025-06-01T00:00:00Z" {
		t.Errorf("UpdatedAt = %q", snap.UpdatedAt)
	}
}
