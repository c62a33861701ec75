package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/football-ical/internal/calendar"
	"github.com/pfrederiksen/football-ical/internal/event"
	"github.com/pfrederiksen/football-ical/internal/scraper"
)

var (
	flagURL    string
	flagNow    string
	flagFormat string
	flagSort   string
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [FILE]",
		Short: "Extract the upcoming fixtures from one schedule page",
		Long: `Extract the upcoming fixtures from a schedule page read from FILE, from
stdin, or fetched with --url. Nothing is stored.

Years are inferred from --now (default: the current time), so a saved page
can be replayed with the date it was downloaded on.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}
	cmd.Flags().StringVar(&flagURL, "url", "", "Fetch the page from this URL")
	cmd.Flags().StringVar(&flagNow, "now", "", "Reference date for year inference (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort fixtures: date, summary or description (default: page order)")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat, FormatText, FormatJSON, FormatICS)
	if err != nil {
		return err
	}
	sortOrder := SortOrder(strings.ToLower(strings.TrimSpace(flagSort)))
	if !validSortOrder(sortOrder) {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'summary' or 'description')", flagSort)
	}
	now, err := parseNow(flagNow, time.Now())
	if err != nil {
		return err
	}
	if flagURL != "" && len(args) > 0 {
		return fmt.Errorf("pass either FILE or --url, not both")
	}

	var (
		result *scraper.Result
		source string
	)
	switch {
	case flagURL != "":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sc := newScraper(cfg.Scraper, nil, cfg.Cache)
		source = flagURL
		result, err = sc.FetchTeam(cmd.Context(), flagURL, now)
		if err != nil {
			return err
		}
	case len(args) == 1:
		source = args[0]
		result, err = extractFile(args[0], now)
		if err != nil {
			return err
		}
	default:
		source = "stdin"
		result, err = scraper.Extract(cmd.InOrStdin(), now)
		if err != nil {
			return fmt.Errorf("extracting stdin: %w", err)
		}
	}

	events := append([]*event.Event(nil), result.Events...)
	sortEvents(events, sortOrder)

	skipped := make(map[string]int)
	for reason, n := range result.Skipped() {
		skipped[string(reason)] = n
	}

	out := &OutputResult{
		ExtractedAt: now,
		Source:      source,
		Name:        result.Name,
		Events:      events,
		EventCount:  len(events),
		Skipped:     skipped,
	}
	return WriteOutput(cmd.OutOrStdout(), out, format, flagVerbose, calendar.New(calendar.Options{}))
}

func extractFile(path string, now time.Time) (*scraper.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	result, err := scraper.Extract(f, now)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	return result, nil
}

// parseNow reads --now as a date in the fixture zone or as an RFC3339 time
func parseNow(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, event.Zone); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --now value: %s (use YYYY-MM-DD or RFC3339)", s)
}
