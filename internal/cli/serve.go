package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cronrunner "github.com/pfrederiksen/football-ical/internal/cron"
	"github.com/pfrederiksen/football-ical/internal/handler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled publisher",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := a.sink(ctx)
	if err != nil {
		return fmt.Errorf("initializing sink: %w", err)
	}
	builder := a.builder(out)

	engine := newEngine(a, builder)

	if a.cfg.Cron.Enabled {
		runner := cronrunner.New(log, ctx)
		_, err := runner.Add(a.cfg.Cron.Publish, func(ctx context.Context) {
			if _, err := builder.Publish(ctx); err != nil {
				log.Warn("scheduled publish failed", zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling publish %q: %w", a.cfg.Cron.Publish, err)
		}
		runner.Start()
		defer runner.Stop()
	}

	srv := &http.Server{
		Addr:    a.cfg.Server.HTTPAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", a.cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newEngine(a *app, publisher handler.Publisher) *gin.Engine {
	if strings.EqualFold(a.cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.RequestLogger(a.logger))
	engine.Use(handler.CORS())

	(&handler.HealthHandler{}).Register(engine)
	(&handler.TeamHandler{
		Teams:   a.store,
		Scraper: a.scraper,
		Encoder: a.encoder,
		Logger:  a.logger,
	}).Register(engine)
	(&handler.FeedHandler{Publisher: publisher}).Register(engine)
	if a.cfg.Server.Metrics {
		(&handler.MetricsHandler{Metrics: a.metrics}).Register(engine)
	}
	if (&handler.StaticHandler{Dir: a.cfg.Server.StaticDir}).Register(engine) {
		a.logger.Info("serving static files", zap.String("dir", a.cfg.Server.StaticDir))
	}
	return engine
}
