package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/VFiee/vue-next/pkg/reactive"
)

// Default tracer name for reactive graphs.
const defaultTracerName = "reactive"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// MinDuration skips spans for effect runs shorter than this.
	// Zero traces every run.
	MinDuration time.Duration

	// Provider is the tracer provider to use.
	// Default: the global OpenTelemetry provider.
	Provider trace.TracerProvider

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithMinDuration sets the minimum effect run duration worth a span.
func WithMinDuration(d time.Duration) TracingOption {
	return func(c *TracingConfig) {
		c.MinDuration = d
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// TracingObserver emits an OpenTelemetry span per effect run. Track and
// trigger events are too fine-grained for spans and are ignored; pair with
// MetricsObserver when counts are wanted.
//
// The observer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before installing the observer:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//	g.SetObserver(observe.NewTracingObserver())
type TracingObserver struct {
	config TracingConfig
}

var _ reactive.Observer = (*TracingObserver)(nil)

// NewTracingObserver creates an OpenTelemetry observer.
func NewTracingObserver(opts ...TracingOption) *TracingObserver {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	config.tracer = config.Provider.Tracer(config.TracerName)
	return &TracingObserver{config: config}
}

// Tracked is a no-op.
func (t *TracingObserver) Tracked(reactive.TrackEvent) {}

// Triggered is a no-op.
func (t *TracingObserver) Triggered(reactive.TriggerEvent) {}

// EffectRan emits a retroactive span covering the run.
func (t *TracingObserver) EffectRan(ev reactive.EffectRunEvent) {
	if ev.Duration < t.config.MinDuration {
		return
	}
	end := time.Now()
	start := end.Add(-ev.Duration)

	_, span := t.config.tracer.Start(
		context.Background(),
		"reactive.effect_run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(start),
		trace.WithAttributes(
			attribute.Int64("reactive.effect_id", int64(ev.EffectID)),
			attribute.Int64("reactive.duration_us", ev.Duration.Microseconds()),
		),
	)
	span.End(trace.WithTimestamp(end))
}
