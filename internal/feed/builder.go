package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/football-ical/internal/calendar"
	"github.com/pfrederiksen/football-ical/internal/event"
	"github.com/pfrederiksen/football-ical/internal/metrics"
	"github.com/pfrederiksen/football-ical/internal/models"
	"github.com/pfrederiksen/football-ical/internal/repository"
	"github.com/pfrederiksen/football-ical/internal/scraper"
	"github.com/pfrederiksen/football-ical/internal/sink"
)

const DefaultConcurrency = 4

// Fetcher downloads and extracts one team's schedule page
type Fetcher interface {
	FetchTeam(ctx context.Context, url string, now time.Time) (*scraper.Result, error)
}

// TeamFailure records a team whose page could not be fetched or extracted
type TeamFailure struct {
	TeamID uint64 `json:"team_id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Err    error  `json:"-"`
	Error  string `json:"error"`
}

// Report summarises one build or publish run
type Report struct {
	Teams     int                        `json:"teams"`
	Events    []*event.Event             `json:"-"`
	Fixtures  int                        `json:"fixtures"`
	Skipped   map[scraper.SkipReason]int `json:"skipped,omitempty"`
	Failed    []TeamFailure              `json:"failed,omitempty"`
	Added     int                        `json:"added"`
	Removed   int                        `json:"removed"`
	Published bool                       `json:"published"`
	Key       string                     `json:"key,omitempty"`
	StartedAt time.Time                  `json:"started_at"`
	Duration  time.Duration              `json:"duration"`
}

// Partial reports whether some but not all teams failed
func (r *Report) Partial() bool {
	return len(r.Failed) > 0 && len(r.Failed) < r.Teams
}

// AllFailed reports whether no team produced a page
func (r *Report) AllFailed() bool {
	return r.Teams > 0 && len(r.Failed) == r.Teams
}

// Err combines the per-team failures, nil when every team succeeded
func (r *Report) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, fmt.Errorf("team %d (%s): %w", f.TeamID, f.URL, f.Err))
	}
	return err
}

// Builder fetches the enabled teams and publishes the merged calendar
type Builder struct {
	Teams     repository.TeamRepository
	Fetcher   Fetcher
	Encoder   *calendar.Encoder
	Sink      sink.Sink
	Snapshots repository.SnapshotRepository
	Logger    *zap.Logger
	Metrics   *metrics.Metrics

	// Concurrency bounds simultaneous page fetches
	Concurrency int
	// Key is the object key the feed is stored under
	Key string
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return zap.NewNop()
}

// Build fetches every enabled team and merges their upcoming fixtures.
// Team failures are recorded on the report; the returned error is only set
// when the team list itself could not be read.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	started := b.now()
	teams, err := b.Teams.ListEnabledTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	report := &Report{
		Teams:     len(teams),
		Skipped:   make(map[scraper.SkipReason]int),
		Key:       b.Key,
		StartedAt: started,
	}
	set := event.NewSet()

	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, team := range teams {
		team := team
		g.Go(func() error {
			result, err := b.fetchTeam(gctx, team, started)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, TeamFailure{
					TeamID: team.ID,
					Name:   team.Name,
					URL:    team.URL,
					Err:    err,
					Error:  err.Error(),
				})
				return nil
			}
			set.Add(result.Events...)
			for reason, n := range result.Skipped() {
				report.Skipped[reason] += n
			}
			return nil
		})
	}
	// Workers never return errors; failures live on the report
	_ = g.Wait()

	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].TeamID < report.Failed[j].TeamID
	})
	report.Events = set.Events()
	report.Fixtures = len(report.Events)
	report.Duration = b.now().Sub(started)
	return report, nil
}

func (b *Builder) fetchTeam(ctx context.Context, team models.Team, now time.Time) (*scraper.Result, error) {
	log := b.logger().With(zap.Uint64("team_id", team.ID), zap.String("url", team.URL))

	start := time.Now()
	result, err := b.Fetcher.FetchTeam(ctx, team.URL, now)
	b.Metrics.ObserveTeamFetch(err, time.Since(start))
	if err != nil {
		log.Warn("fetching team failed", zap.Error(err))
		return nil, err
	}

	b.Metrics.AddFixtures(len(result.Events))
	for reason, n := range result.Skipped() {
		b.Metrics.AddSkipped(string(reason), n)
	}
	log.Debug("fetched team",
		zap.String("name", result.Name),
		zap.Int("fixtures", len(result.Events)),
		zap.Int("rows", len(result.Rows)),
	)
	return result, nil
}

// Publish builds the feed and stores it through the sink. When every team
// failed nothing is stored and the combined failures are returned; partial
// feeds are published and reported through Report.Failed.
func (b *Builder) Publish(ctx context.Context) (*Report, error) {
	log := b.logger()

	report, err := b.Build(ctx)
	if err != nil {
		b.Metrics.ObservePublish(metrics.StatusFailed)
		return nil, err
	}

	if report.AllFailed() {
		b.Metrics.ObservePublish(metrics.StatusFailed)
		log.Error("every team failed, keeping the previous feed", zap.Int("teams", report.Teams))
		return report, fmt.Errorf("publishing %s: %w", b.Key, report.Err())
	}

	previous, err := b.Snapshots.LoadSnapshot(ctx, b.Key)
	if err != nil {
		log.Warn("loading previous snapshot failed", zap.Error(err))
		previous = event.NewSnapshot()
	}
	diff := event.Diff(previous, report.Events)
	report.Added = len(diff.Added)
	report.Removed = len(diff.Removed)
	for _, evt := range diff.Added {
		log.Info("fixture added", zap.Time("start", evt.StartAt), zap.String("summary", evt.Summary))
	}
	for _, evt := range diff.Removed {
		log.Info("fixture removed", zap.Time("start", evt.StartAt), zap.String("summary", evt.Summary))
	}

	data := []byte(b.Encoder.Render(report.Events))
	if err := b.Sink.Store(ctx, b.Key, data); err != nil {
		b.Metrics.ObservePublish(metrics.StatusFailed)
		return report, fmt.Errorf("storing feed %s: %w", b.Key, err)
	}
	report.Published = true

	publishedAt := b.now()
	snapshot := event.CreateSnapshot(report.Events, publishedAt.UTC().Format(time.RFC3339))
	if err := b.Snapshots.SaveSnapshot(ctx, b.Key, snapshot); err != nil {
		log.Warn("saving snapshot failed", zap.Error(err))
	}

	b.Metrics.MarkPublished(report.Fixtures, publishedAt)
	status := metrics.StatusSuccess
	if report.Partial() {
		status = metrics.StatusPartial
	}
	b.Metrics.ObservePublish(status)

	log.Info("published feed",
		zap.String("key", b.Key),
		zap.Int("teams", report.Teams),
		zap.Int("failed", len(report.Failed)),
		zap.Int("fixtures", report.Fixtures),
		zap.Int("added", report.Added),
		zap.Int("removed", report.Removed),
		zap.Int("bytes", len(data)),
	)
	return report, nil
}
