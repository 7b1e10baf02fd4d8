package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/keyed/pkg/keyed"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "keyed").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: fine-grained buckets from 10µs to 250ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "keyed",
		Buckets:   []float64{.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a keyed.Observer that records pass statistics in Prometheus.
type Metrics struct {
	rowsCreated  prometheus.Counter
	rowsRemoved  prometheus.Counter
	rowsMoved    prometheus.Counter
	duplicates   prometheus.Counter
	passesTotal  *prometheus.CounterVec
	passDuration prometheus.Histogram
}

// Prometheus registers the reconciliation metrics and returns an observer
// that updates them. Registering twice against the same registry panics, as
// promauto does.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		rowsCreated: counter("rows_created_total", "Total number of rows rendered"),
		rowsRemoved: counter("rows_removed_total", "Total number of rows disposed"),
		rowsMoved:   counter("rows_moved_total", "Total number of retained rows physically moved"),
		duplicates:  counter("duplicate_keys_total", "Total number of items dropped for a duplicate key"),

		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of reconciliation passes by path",
			ConstLabels: config.ConstLabels,
		}, []string{"path"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Reconciliation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// PassStarted implements keyed.Observer.
func (m *Metrics) PassStarted(keyed.PassInfo) {}

// PassFinished implements keyed.Observer.
func (m *Metrics) PassFinished(_ keyed.PassInfo, stats keyed.PassStats) {
	m.rowsCreated.Add(float64(stats.Created))
	m.rowsRemoved.Add(float64(stats.Removed))
	m.rowsMoved.Add(float64(stats.Moved))
	m.duplicates.Add(float64(stats.Duplicates))
	m.passesTotal.WithLabelValues(stats.Path.String()).Inc()
	m.passDuration.Observe(stats.Duration.Seconds())
}
