package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, gauges, and histograms for one
// analysis run. A batch job has no scrape endpoint, so the registry is
// written to a node_exporter textfile at the end of the run.
type Metrics struct {
	Registry *prometheus.Registry

	EventsLoaded      *prometheus.CounterVec // labels: kind={earthquake,explosion}
	FilesRead         prometheus.Counter
	SetsPartitioned   prometheus.Gauge
	FreqMagRows       prometheus.Gauge
	EstimatesComputed prometheus.Counter
	EstimateFailures  prometheus.Counter
	StageDuration     *prometheus.HistogramVec // labels: stage={extract,analyze,load}
	LastRunSuccess    prometheus.Gauge
	LastRunTimestamp  prometheus.Gauge
}

// NewMetrics creates all run metrics on a fresh registry, so repeated runs in
// one process (and tests) never collide on registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		EventsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kilauea",
			Name:      "events_loaded_total",
			Help:      "Catalog events parsed from CSV, by kind.",
		}, []string{"kind"}),
		FilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kilauea",
			Name:      "catalog_files_read_total",
			Help:      "Catalog CSV files read.",
		}),
		SetsPartitioned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kilauea",
			Name:      "sets",
			Help:      "Number of explosion sets, including the lead-up and trailing sets.",
		}),
		FreqMagRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kilauea",
			Name:      "frequency_magnitude_rows",
			Help:      "Occupied (set, magnitude bin) pairs.",
		}),
		EstimatesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kilauea",
			Name:      "bvalue_estimates_total",
			Help:      "b-value estimates computed.",
		}),
		EstimateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kilauea",
			Name:      "bvalue_estimate_failures_total",
			Help:      "b-value estimates that could not be computed.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kilauea",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kilauea",
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it failed.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kilauea",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	reg.MustRegister(
		m.EventsLoaded,
		m.FilesRead,
		m.SetsPartitioned,
		m.FreqMagRows,
		m.EstimatesComputed,
		m.EstimateFailures,
		m.StageDuration,
		m.LastRunSuccess,
		m.LastRunTimestamp,
	)

	return m
}

// WriteTextfile writes the registry in the text exposition format. The file
// is written atomically so node_exporter never reads a partial file.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
