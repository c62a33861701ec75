package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/football-ical/internal/calendar"
	"github.com/pfrederiksen/football-ical/internal/event"
	"github.com/pfrederiksen/football-ical/internal/feed"
	"github.com/pfrederiksen/football-ical/internal/models"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// parseFormat normalises s and checks it against the formats a command accepts
func parseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, 0, len(allowed))
	for _, f := range allowed {
		if f == format {
			return format, nil
		}
		names = append(names, "'"+string(f)+"'")
	}
	return "", fmt.Errorf("invalid format: %s (must be %s)", s, strings.Join(names, ", "))
}

// OutputResult contains data to be output
type OutputResult struct {
	ExtractedAt time.Time      `json:"extracted_at"`
	Source      string         `json:"source"`
	Name        string         `json:"name"`
	Events      []*event.Event `json:"events"`
	EventCount  int            `json:"event_count"`
	Skipped     map[string]int `json:"skipped,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool, enc *calendar.Encoder) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		return enc.Encode(w, result.Events)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.Name != "" {
		fmt.Fprintf(w, "%s\n", result.Name)
	}

	if result.EventCount == 0 {
		fmt.Fprintln(w, "No upcoming fixtures found.")
	} else {
		for _, evt := range result.Events {
			fmt.Fprintf(w, "  %s  %s\n", evt.StartAt.In(event.Zone).Format("2006-01-02 (Mon) 15:04"), evt.Summary)
			if verbose {
				if venue, ok := evt.Venue(); ok {
					fmt.Fprintf(w, "       Venue: %s\n", venue)
				}
				fmt.Fprintf(w, "       Competition: %s\n", evt.Description)
			}
		}
		fmt.Fprintf(w, "\nTotal: %d fixtures\n", result.EventCount)
	}

	if verbose && len(result.Skipped) > 0 {
		reasons := make([]string, 0, len(result.Skipped))
		for reason := range result.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)

		fmt.Fprintln(w, "Skipped rows:")
		for _, reason := range reasons {
			fmt.Fprintf(w, "  %s: %d\n", reason, result.Skipped[reason])
		}
	}
	return nil
}

// WriteTeams lists teams as a table or JSON array
func WriteTeams(w io.Writer, teams []models.Team, format OutputFormat) error {
	if format == FormatJSON {
		if teams == nil {
			teams = []models.Team{}
		}
		return writeJSON(w, teams)
	}

	if len(teams) == 0 {
		fmt.Fprintln(w, "No teams registered.")
		return nil
	}
	for _, t := range teams {
		fmt.Fprintf(w, "%4d  %-8s  %s\n      %s\n", t.ID, statusLabel(t.Enabled), t.Name, t.URL)
	}
	fmt.Fprintf(w, "\nTotal: %d teams\n", len(teams))
	return nil
}

// writeReport summarises a crawl
func writeReport(w io.Writer, report *feed.Report) {
	if report.Published {
		fmt.Fprintf(w, "Published %s: %d fixtures from %d teams (%d added, %d removed)\n",
			report.Key, report.Fixtures, report.Teams, report.Added, report.Removed)
	} else {
		fmt.Fprintf(w, "Built %d fixtures from %d teams\n", report.Fixtures, report.Teams)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(w, "  FAILED team %d (%s): %s\n", f.TeamID, f.URL, f.Error)
	}
}
