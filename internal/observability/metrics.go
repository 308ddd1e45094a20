package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for an ingest run.
type Metrics struct {
	IngestRunning prometheus.Gauge

	// Per-family record accounting. family={HD,EN,AM,LA}
	RecordsRead     *prometheus.CounterVec // labels: family
	RecordsSkipped  *prometheus.CounterVec // labels: family, reason={malformed,wrong_family,no_callsign,filtered,no_location,bad_coordinates}
	RecordsUpserted *prometheus.CounterVec // labels: family

	PassDuration *prometheus.HistogramVec // labels: family
	FlushCount   prometheus.Counter

	// Artifact generation metrics.
	ArtifactsWritten prometheus.Counter
	ArtifactsSkipped prometheus.Counter

	// Lookup API metrics.
	LookupRequests *prometheus.CounterVec // labels: outcome={hit,miss}
}

// NewMetrics creates and registers all ingest metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hamqrzdb",
			Name:      "ingest_running",
			Help:      "1 while an ingest run is active, 0 otherwise.",
		}),
		RecordsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hamqrzdb",
			Name:      "records_read_total",
			Help:      "Lines read from the database dump, by record family.",
		}, []string{"family"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hamqrzdb",
			Name:      "records_skipped_total",
			Help:      "Lines skipped during ingest, by family and reason.",
		}, []string{"family", "reason"}),
		RecordsUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hamqrzdb",
			Name:      "records_upserted_total",
			Help:      "Records merged into the callsign table, by family.",
		}, []string{"family"}),
		PassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hamqrzdb",
			Name:      "pass_duration_seconds",
			Help:      "Duration of a complete pass over one record file.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"family"}),
		FlushCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hamqrzdb",
			Name:      "store_flushes_total",
			Help:      "Batch flushes committed to the store.",
		}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hamqrzdb",
			Name:      "artifacts_written_total",
			Help:      "Per-callsign JSON artifacts written to the output tree.",
		}),
		ArtifactsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hamqrzdb",
			Name:      "artifacts_skipped_total",
			Help:      "Callsigns skipped during artifact generation.",
		}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hamqrzdb",
			Name:      "lookup_requests_total",
			Help:      "Callsign lookup requests by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.IngestRunning,
		m.RecordsRead,
		m.RecordsSkipped,
		m.RecordsUpserted,
		m.PassDuration,
		m.FlushCount,
		m.ArtifactsWritten,
		m.ArtifactsSkipped,
		m.LookupRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		IngestRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hamqrzdb", Name: "ingest_running"}),
		RecordsRead:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hamqrzdb", Name: "records_read_total"}, []string{"family"}),
		RecordsSkipped:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hamqrzdb", Name: "records_skipped_total"}, []string{"family", "reason"}),
		RecordsUpserted:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hamqrzdb", Name: "records_upserted_total"}, []string{"family"}),
		PassDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "hamqrzdb", Name: "pass_duration_seconds"}, []string{"family"}),
		FlushCount:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hamqrzdb", Name: "store_flushes_total"}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hamqrzdb", Name: "artifacts_written_total"}),
		ArtifactsSkipped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hamqrzdb", Name: "artifacts_skipped_total"}),
		LookupRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hamqrzdb", Name: "lookup_requests_total"}, []string{"outcome"}),
	}
}
