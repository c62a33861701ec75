package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pfrederiksen/football-ical/internal/cache"
	"github.com/pfrederiksen/football-ical/internal/calendar"
	"github.com/pfrederiksen/football-ical/internal/config"
	"github.com/pfrederiksen/football-ical/internal/db"
	"github.com/pfrederiksen/football-ical/internal/feed"
	"github.com/pfrederiksen/football-ical/internal/logger"
	"github.com/pfrederiksen/football-ical/internal/metrics"
	"github.com/pfrederiksen/football-ical/internal/repository"
	gormrepository "github.com/pfrederiksen/football-ical/internal/repository/gorm"
	"github.com/pfrederiksen/football-ical/internal/scraper"
	"github.com/pfrederiksen/football-ical/internal/sink"
	"github.com/pfrederiksen/football-ical/internal/storage"
)

// loadConfig reads the config file unless --env-only is set. A missing
// default file is not an error; the defaults and environment apply.
func loadConfig() (config.Config, error) {
	envOnly := flagEnvOnly
	if !envOnly && flagConfig == defaultConfigPath {
		if _, err := os.Stat(flagConfig); errors.Is(err, os.ErrNotExist) {
			envOnly = true
		}
	}

	cfg, err := config.Load(flagConfig, envOnly)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	} else if flagVerbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// app holds the components shared by the commands
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	store   repository.Store
	scraper *scraper.Scraper
	encoder *calendar.Encoder
	metrics *metrics.Metrics
	closers []func() error
}

// newApp wires storage, cache and scraper from the configuration. Logs go to
// logOut so stdout stays free for command output.
func newApp(logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		logger:  logger.NewWithWriter(cfg.Log, logOut),
		metrics: metrics.New(),
		encoder: newEncoder(cfg.Feed),
	}

	if err := a.openStore(); err != nil {
		a.Close()
		return nil, err
	}

	store, err := a.openCache()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.scraper = newScraper(cfg.Scraper, store, cfg.Cache)
	return a, nil
}

func (a *app) openStore() error {
	switch a.cfg.Storage.Driver {
	case "postgres":
		conn, err := db.Open(a.cfg.DB)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.closers = append(a.closers, func() error { return db.Close(conn) })
		if err := db.Ping(conn); err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		if a.cfg.DB.AutoMigrate {
			if err := db.AutoMigrate(conn); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
		}
		a.store = gormrepository.New(conn.Gorm)
	default:
		st, err := storage.New(a.cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		a.store = st
	}
	a.logger.Debug("storage ready", zap.String("driver", a.cfg.Storage.Driver))
	return nil
}

func (a *app) openCache() (cache.Store, error) {
	switch a.cfg.Cache.Driver {
	case "redis":
		rs, err := cache.NewRedisStoreFromURL(a.cfg.Cache.RedisURL, a.cfg.Cache.Prefix)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return nil, nil
	}
}

func newScraper(cfg config.ScraperConfig, store cache.Store, cc config.CacheConfig) *scraper.Scraper {
	opts := []scraper.Option{
		scraper.WithClient(&http.Client{Timeout: cfg.Timeout}),
		scraper.WithMaxRetries(cfg.MaxRetries),
		scraper.WithRetryInterval(cfg.RetryInterval),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, scraper.WithUserAgent(cfg.UserAgent))
	}
	if store != nil {
		opts = append(opts, scraper.WithCache(store, cc.TTL))
	}
	return scraper.New(opts...)
}

func newEncoder(cfg config.FeedConfig) *calendar.Encoder {
	return calendar.New(calendar.Options{
		Name:     cfg.Name,
		TZID:     cfg.TZID,
		Duration: cfg.EventDuration,
		Escape:   cfg.Escape,
	})
}

// sink returns the configured feed destination
func (a *app) sink(ctx context.Context) (sink.Sink, error) {
	switch strings.ToLower(a.cfg.Feed.Sink) {
	case "s3":
		return sink.NewS3(ctx, sink.S3Options{
			Endpoint:        a.cfg.S3.Endpoint,
			Region:          a.cfg.S3.Region,
			Bucket:          a.cfg.S3.Bucket,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			UsePathStyle:    a.cfg.S3.UsePathStyle,
		})
	case "stdout":
		return sink.NewWriter(os.Stdout), nil
	default:
		return sink.NewFile(a.cfg.Feed.OutputDir)
	}
}

func (a *app) builder(out sink.Sink) *feed.Builder {
	return &feed.Builder{
		Teams:       a.store,
		Fetcher:     a.scraper,
		Encoder:     a.encoder,
		Sink:        out,
		Snapshots:   a.store,
		Logger:      a.logger,
		Metrics:     a.metrics,
		Concurrency: a.cfg.Scraper.Concurrency,
		Key:         a.cfg.Feed.Key,
	}
}

// Close releases connections in reverse order of opening
func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	_ = a.logger.Sync()
	return err
}
