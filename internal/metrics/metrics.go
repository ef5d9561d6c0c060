// Package metrics provides the Prometheus metrics of the ingest runs and
// the read API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/albapepper/febamba-data/internal/normalize"
	"github.com/albapepper/febamba-data/internal/report"
)

// Metrics owns a private registry so tests and batch runs never collide
// with the global one.
type Metrics struct {
	registry *prometheus.Registry

	// Ingest metrics
	RowsTotal     *prometheus.CounterVec
	ProblemsTotal *prometheus.CounterVec
	SeasonsTotal  *prometheus.CounterVec
	LastRun       *prometheus.GaugeVec

	// API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers every metric.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "febamba_ingest_rows_total",
				Help: "Raw fixtures processed by the normalizer",
			},
			[]string{"year", "outcome"},
		),
		ProblemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "febamba_ingest_problems_total",
				Help: "Non-fatal problems reported while normalizing and scoring",
			},
			[]string{"kind"},
		),
		SeasonsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "febamba_ranking_seasons_total",
				Help: "Seasons folded into the weighted ranking",
			},
			[]string{"status"},
		),
		LastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "febamba_last_run_timestamp_seconds",
				Help: "Unix time of the last completed run per command",
			},
			[]string{"command"},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "febamba_http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "febamba_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		m.RowsTotal,
		m.ProblemsTotal,
		m.SeasonsTotal,
		m.LastRun,
		m.RequestsTotal,
		m.RequestDuration,
	)
	return m
}

// Registry returns the metrics registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// --------------------------------------------------------------------------
// Ingest recording
// --------------------------------------------------------------------------

var _ normalize.Recorder = (*Metrics)(nil)

// Row counts one normalizer outcome.
func (m *Metrics) Row(year int, outcome normalize.Outcome) {
	m.RowsTotal.WithLabelValues(strconv.Itoa(year), string(outcome)).Inc()
}

// Problem counts one reported problem.
func (m *Metrics) Problem(kind report.Kind) {
	m.ProblemsTotal.WithLabelValues(string(kind)).Inc()
}

// Season counts a season fold with status "scored" or "aborted".
func (m *Metrics) Season(status string) {
	m.SeasonsTotal.WithLabelValues(status).Inc()
}

// MarkRun stamps the completion time of a command.
func (m *Metrics) MarkRun(command string, at time.Time) {
	m.LastRun.WithLabelValues(command).Set(float64(at.Unix()))
}

// WriteTextfile writes the registry for the node exporter's textfile
// collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// --------------------------------------------------------------------------
// HTTP middleware
// --------------------------------------------------------------------------

// Middleware records request counts and latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
