// Package metrics collects per-run export metrics and writes them as a Prometheus textfile
// for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one export run. Each run gets its own registry so
// repeated runs in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	recordsTotal     prometheus.Counter
	tokensTotal      *prometheus.CounterVec
	viewWrites       *prometheus.CounterVec
	uploads          *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	lastRunTimestamp prometheus.Gauge
}

// New creates and registers the run collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recordsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "meetcorpus_records_total",
				Help: "Meeting records assembled into the dataset",
			},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetcorpus_tokens_total",
				Help: "Tagged tokens emitted, by label",
			},
			[]string{"label"},
		),
		viewWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetcorpus_view_writes_total",
				Help: "View file writes, by view and status",
			},
			[]string{"view", "status"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetcorpus_uploads_total",
				Help: "Object store uploads, by status",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetcorpus_run_duration_seconds",
				Help:    "Time taken by an export run",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"status"},
		),
		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "meetcorpus_last_run_timestamp_seconds",
				Help: "Unix time the last export run finished",
			},
		),
	}

	m.registry.MustRegister(
		m.recordsTotal,
		m.tokensTotal,
		m.viewWrites,
		m.uploads,
		m.runDuration,
		m.lastRunTimestamp,
	)
	return m
}

// ObserveDataset records the record count and per-label token counts.
func (m *Metrics) ObserveDataset(records int, labelCounts map[string]int) {
	m.recordsTotal.Add(float64(records))
	for label, n := range labelCounts {
		m.tokensTotal.WithLabelValues(label).Add(float64(n))
	}
}

// ObserveViewWrite records one view file write.
func (m *Metrics) ObserveViewWrite(view string, ok bool) {
	m.viewWrites.WithLabelValues(view, status(ok)).Inc()
}

// ObserveUpload records one object store upload.
func (m *Metrics) ObserveUpload(ok bool) {
	m.uploads.WithLabelValues(status(ok)).Inc()
}

// ObserveRun records the run outcome and how long it took.
func (m *Metrics) ObserveRun(runStatus string, elapsed time.Duration, finished time.Time) {
	m.runDuration.WithLabelValues(runStatus).Observe(elapsed.Seconds())
	m.lastRunTimestamp.Set(float64(finished.Unix()))
}

// WriteTextfile writes every collector to path in the text exposition format.
// The file is written to a temp name and renamed into place.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
