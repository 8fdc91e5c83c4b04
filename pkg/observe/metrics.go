// Package observe provides instrumentation observers for reactive graphs:
// Prometheus metrics and OpenTelemetry tracing. Observers are installed with
// Graph.SetObserver (combine several with reactive.CombineObservers).
package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VFiee/vue-next/pkg/reactive"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect run duration.
	// Default: prometheus.DefBuckets
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

// WithBuckets sets the histogram buckets for run duration.
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
		Namespace: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// MetricsObserver counts engine events into Prometheus metrics.
//
// Metrics collected:
//   - reactive_tracks_total: Counter of dependency recordings
//   - reactive_triggers_total: Counter of mutation notifications by kind
//   - reactive_triggered_effects_total: Counter of effect notifications delivered
//   - reactive_effect_runs_total: Counter of completed effect runs
//   - reactive_effect_run_duration_seconds: Histogram of effect run duration
type MetricsObserver struct {
	tracksTotal      prometheus.Counter
	triggersTotal    *prometheus.CounterVec
	triggeredEffects prometheus.Counter
	effectRunsTotal  prometheus.Counter
	runDuration      prometheus.Histogram
}

var _ reactive.Observer = (*MetricsObserver)(nil)

// NewMetricsObserver creates a Prometheus observer, registering its metrics
// with the configured registry.
//
// Example:
//
//	g := reactive.NewGraph()
//	g.SetObserver(observe.NewMetricsObserver(
//	    observe.WithNamespace("myapp"),
//	))
//	http.Handle("/metrics", promhttp.Handler())
func NewMetricsObserver(opts ...MetricsOption) *MetricsObserver {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &MetricsObserver{
		tracksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tracks_total",
			Help:        "Total number of dependency recordings",
			ConstLabels: config.ConstLabels,
		}),

		triggersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of mutation notifications by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		triggeredEffects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggered_effects_total",
			Help:        "Total number of effect notifications delivered by triggers",
			ConstLabels: config.ConstLabels,
		}),

		effectRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of completed effect runs",
			ConstLabels: config.ConstLabels,
		}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Tracked counts a dependency recording.
func (m *MetricsObserver) Tracked(reactive.TrackEvent) {
	m.tracksTotal.Inc()
}

// Triggered counts a mutation notification and the effects it reached.
func (m *MetricsObserver) Triggered(ev reactive.TriggerEvent) {
	m.triggersTotal.WithLabelValues(ev.Kind.String()).Inc()
	m.triggeredEffects.Add(float64(ev.Effects))
}

// EffectRan counts a completed run and observes its duration.
func (m *MetricsObserver) EffectRan(ev reactive.EffectRunEvent) {
	m.effectRunsTotal.Inc()
	m.runDuration.Observe(ev.Duration.Seconds())
}
