package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pfrederiksen/football-ical/internal/feed"
)

var flagDryRun bool

func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Fetch every enabled team and publish the feed",
		Long: `Fetch the schedule page of every enabled team, merge the upcoming fixtures
and store the calendar in the configured sink.

Exits 2 when the feed was published but some teams failed.`,
		Args: cobra.NoArgs,
		RunE: runCrawl,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the calendar to stdout instead of publishing it")
	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	if flagDryRun {
		report, err := a.builder(nil).Build(ctx)
		if err != nil {
			return err
		}
		if report.AllFailed() {
			return fmt.Errorf("building feed: %w", report.Err())
		}
		if err := a.encoder.Encode(cmd.OutOrStdout(), report.Events); err != nil {
			return err
		}
		writeReport(cmd.ErrOrStderr(), report)
		return crawlResult(report)
	}

	out, err := a.sink(ctx)
	if err != nil {
		return fmt.Errorf("initializing sink: %w", err)
	}

	report, err := a.builder(out).Publish(ctx)
	if err != nil {
		if report != nil {
			writeReport(cmd.ErrOrStderr(), report)
		}
		return err
	}
	writeReport(cmd.ErrOrStderr(), report)
	a.logger.Debug("crawl finished", zap.Duration("took", report.Duration.Round(time.Millisecond)))
	return crawlResult(report)
}

func crawlResult(report *feed.Report) error {
	if report.Partial() {
		return errPartial
	}
	return nil
}
