// Package metrics exposes feed publishing counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "football_ical"

// Publish outcomes
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Metrics holds the collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	publishTotal   *prometheus.CounterVec
	teamFetchTotal *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	fixturesTotal  prometheus.Counter
	rowsSkipped    *prometheus.CounterVec
	feedEvents     prometheus.Gauge
	lastSuccessTS  prometheus.Gauge
}

// New creates the collectors and registers them, with the Go runtime and
// process collectors, on a fresh registry
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.publishTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_total",
		Help:      "Feed publish runs by outcome",
	}, []string{"status"})
	m.teamFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "team_fetch_total",
		Help:      "Schedule page fetch and extract attempts by status",
	}, []string{"status"})
	m.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "team_fetch_duration_seconds",
		Help:      "Time spent fetching and extracting one schedule page",
		Buckets:   prometheus.DefBuckets,
	})
	m.fixturesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixtures_extracted_total",
		Help:      "Upcoming fixtures extracted from schedule pages",
	})
	m.rowsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_skipped_total",
		Help:      "Schedule rows that produced no fixture, by reason",
	}, []string{"reason"})
	m.feedEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_events",
		Help:      "Fixtures in the last published feed",
	})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful publish",
	})

	m.registry.MustRegister(
		m.publishTotal, m.teamFetchTotal, m.fetchDuration,
		m.fixturesTotal, m.rowsSkipped, m.feedEvents, m.lastSuccessTS,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObservePublish(status string) {
	if m == nil {
		return
	}
	m.publishTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveTeamFetch(err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.teamFetchTotal.WithLabelValues(status).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) AddFixtures(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.fixturesTotal.Add(float64(n))
}

func (m *Metrics) AddSkipped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsSkipped.WithLabelValues(reason).Add(float64(n))
}

// MarkPublished records the size and time of a successfully stored feed
func (m *Metrics) MarkPublished(events int, at time.Time) {
	if m == nil {
		return
	}
	m.feedEvents.Set(float64(events))
	m.lastSuccessTS.Set(float64(at.Unix()))
}
