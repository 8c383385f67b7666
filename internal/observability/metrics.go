package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for Metrics.Resolutions.
const (
	OutcomeCache       = "cache"
	OutcomeStructured  = "structured"
	OutcomeBulletin    = "bulletin"
	OutcomeStale       = "stale"
	OutcomeUnavailable = "unavailable"
	OutcomeInvalid     = "invalid"
)

// Metrics holds the Prometheus counters and histograms for weather resolution.
type Metrics struct {
	Resolutions    *prometheus.CounterVec   // labels: outcome
	SourceFailures *prometheus.CounterVec   // labels: source={structured,bulletin}
	SourceDuration *prometheus.HistogramVec // labels: source={structured,bulletin}
	CacheLookups   *prometheus.CounterVec   // labels: layer={lru,dynamo}, result={hit,miss}
	ArchiveErrors  prometheus.Counter
}

// NewUnregisteredMetrics creates Metrics without registering them, for
// callers that do not export metrics and for tests that build many.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar",
			Name:      "resolutions_total",
			Help:      "Weather resolutions by outcome.",
		}, []string{"outcome"}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar",
			Name:      "source_failures_total",
			Help:      "Upstream source calls that failed, by source.",
		}, []string{"source"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "metar",
			Name:      "source_duration_seconds",
			Help:      "Upstream source call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar",
			Name:      "cache_lookups_total",
			Help:      "Report cache lookups by layer and result.",
		}, []string{"layer", "result"}),
		ArchiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar",
			Name:      "archive_errors_total",
			Help:      "Raw bulletin payloads that could not be archived.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewUnregisteredMetrics()
	m.MustRegister(prometheus.DefaultRegisterer)
	return m
}

// MustRegister registers every collector with reg, panicking on duplicates.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.Resolutions,
		m.SourceFailures,
		m.SourceDuration,
		m.CacheLookups,
		m.ArchiveErrors,
	)
}
