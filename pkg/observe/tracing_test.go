package observe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/VFiee/vue-next/pkg/reactive"
)

// recordingTracer captures Start calls; spans themselves stay no-ops.
type recordingTracer struct {
	noop.Tracer
	spans []recordedSpan
}

type recordedSpan struct {
	name string
	cfg  trace.SpanConfig
}

func (tr *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	tr.spans = append(tr.spans, recordedSpan{name: name, cfg: trace.NewSpanStartConfig(opts...)})
	return tr.Tracer.Start(ctx, name)
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
	name   string
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	p.name = name
	return p.tracer
}

func TestTracingObserverSpansPerRun(t *testing.T) {
	provider := &recordingProvider{tracer: &recordingTracer{}}
	obs := NewTracingObserver(
		WithTracerProvider(provider),
		WithTracerName("test-graph"),
	)
	require.Equal(t, "test-graph", provider.name)

	g := reactive.NewGraph()
	g.SetObserver(obs)

	r := reactive.NewRefIn(g, 0)
	e := g.NewEffect(func() reactive.Cleanup {
		_ = r.Value()
		return nil
	})
	r.SetValue(1)

	spans := provider.tracer.spans
	require.Len(t, spans, 2, "one span per effect run")
	for _, s := range spans {
		require.Equal(t, "reactive.effect_run", s.name)
		require.Equal(t, trace.SpanKindInternal, s.cfg.SpanKind())
		require.False(t, s.cfg.Timestamp().IsZero(), "span start should carry the run start timestamp")

		var foundID bool
		for _, attr := range s.cfg.Attributes() {
			if attr.Key == "reactive.effect_id" {
				foundID = true
				require.Equal(t, int64(e.ID()), attr.Value.AsInt64())
			}
		}
		require.True(t, foundID, "span should carry the effect ID")
	}
}

func TestTracingObserverMinDuration(t *testing.T) {
	provider := &recordingProvider{tracer: &recordingTracer{}}
	obs := NewTracingObserver(
		WithTracerProvider(provider),
		WithMinDuration(time.Hour),
	)

	g := reactive.NewGraph()
	g.SetObserver(obs)
	g.NewEffect(func() reactive.Cleanup { return nil })

	require.Empty(t, provider.tracer.spans, "short runs should not produce spans")
}

func TestTracingObserverIgnoresTrackAndTrigger(t *testing.T) {
	provider := &recordingProvider{tracer: &recordingTracer{}}
	obs := NewTracingObserver(WithTracerProvider(provider))

	obs.Tracked(reactive.TrackEvent{})
	obs.Triggered(reactive.TriggerEvent{})
	require.Empty(t, provider.tracer.spans)
}
