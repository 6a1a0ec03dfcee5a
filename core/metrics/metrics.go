package metrics

import (
	"context"
	"time"

	"npi-linker/core/pipeline"
	"npi-linker/core/reference"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run kinds used as label values.
const (
	KindMatch    = "match"
	KindFilter   = "filter"
	KindCoverage = "coverage"
)

// Metrics tracks scan throughput and outcomes. A nil *Metrics is valid and
// records nothing, so callers never need to check.
type Metrics struct {
	registry *prometheus.Registry

	RowsScanned *prometheus.CounterVec
	Malformed   *prometheus.CounterVec
	Chunks      *prometheus.CounterVec
	Resolutions *prometheus.CounterVec
	Qualifying  prometheus.Counter
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RowsScanned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "npi_rows_scanned_total",
			Help: "Reference rows read, by run kind",
		}, []string{"kind"}),
		Malformed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "npi_rows_malformed_total",
			Help: "Reference records skipped because they could not be parsed",
		}, []string{"kind"}),
		Chunks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "npi_chunks_total",
			Help: "Reference chunks consumed, by run kind",
		}, []string{"kind"}),
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "npi_resolutions_total",
			Help: "Targets resolved, by confidence tier",
		}, []string{"confidence"}),
		Qualifying: f.NewCounter(prometheus.CounterOpts{
			Name: "npi_rows_qualifying_total",
			Help: "Rows written by classification runs",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "npi_runs_total",
			Help: "Completed runs by kind and outcome",
		}, []string{"kind", "outcome"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "npi_run_duration_seconds",
			Help:    "Wall time of a full pass over the reference source",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 2400},
		}, []string{"kind"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveChunk records one consumed chunk.
func (m *Metrics) ObserveChunk(kind string, chunk *reference.Chunk) {
	if m == nil || chunk == nil {
		return
	}
	m.Chunks.WithLabelValues(kind).Inc()
	m.RowsScanned.WithLabelValues(kind).Add(float64(len(chunk.Rows)))
	if chunk.Malformed > 0 {
		m.Malformed.WithLabelValues(kind).Add(float64(chunk.Malformed))
	}
}

// ObserveResolution records one accepted resolution.
func (m *Metrics) ObserveResolution(confidence string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(confidence).Inc()
}

// ObserveQualifying records rows written by a classification run.
func (m *Metrics) ObserveQualifying(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Qualifying.Add(float64(n))
}

// ObserveRun records the outcome of a finished run.
func (m *Metrics) ObserveRun(kind string, stats pipeline.Stats, err error) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(kind, Outcome(stats, err)).Inc()
	m.RunDuration.WithLabelValues(kind).Observe(stats.Duration.Seconds())
}

// ObserveSince is a shorthand for timing work outside a pipeline run.
func (m *Metrics) ObserveSince(kind string, start time.Time) {
	if m == nil {
		return
	}
	m.RunDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

type meteredConsumer struct {
	pipeline.Consumer
	metrics *Metrics
	kind    string
}

func (c meteredConsumer) Consume(ctx context.Context, chunk *reference.Chunk) error {
	if err := c.Consumer.Consume(ctx, chunk); err != nil {
		return err
	}
	c.metrics.ObserveChunk(c.kind, chunk)
	return nil
}

// Consumer wraps next so every consumed chunk is counted under kind.
// A nil receiver returns next unchanged.
func (m *Metrics) Consumer(kind string, next pipeline.Consumer) pipeline.Consumer {
	if m == nil {
		return next
	}
	return meteredConsumer{Consumer: next, metrics: m, kind: kind}
}

// Outcome labels a run: error, cancelled, early_exit or completed.
func Outcome(stats pipeline.Stats, err error) string {
	switch {
	case err != nil:
		return "error"
	case stats.Cancelled:
		return "cancelled"
	case stats.EarlyExit:
		return "early_exit"
	default:
		return "completed"
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	if m == nil {
		return func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNotFound)
		}
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
