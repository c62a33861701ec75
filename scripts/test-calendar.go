package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/football-ical/internal/calendar"
	"github.com/pfrederiksen/football-ical/internal/event"
)

func main() {
	venue := "ノエビアスタジアム神戸"
	kickoff := time.Now().In(event.Zone).Add(7 * 24 * time.Hour).Truncate(time.Hour)

	// Two sample fixtures, one without a venue
	set := event.NewSet()
	set.Add(
		event.New(kickoff, "ヴィッセル神戸 - サンフレッチェ広島", &venue, "J1リーグ 第22節"),
		event.New(kickoff.Add(4*24*time.Hour), "ヴィッセル神戸 - ガイナーレ鳥取", nil, "天皇杯 3回戦"),
	)

	icsContent := calendar.New(calendar.Options{Name: "football-ical sample"}).Render(set.Events())

	// Write to file (owner read/write only)
	filename := "test-football-ical.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s with %d fixtures\n", filename, set.Len())
	fmt.Println("Import it into a calendar app to check how fixtures are displayed.")
}
