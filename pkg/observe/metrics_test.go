package observe

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/VFiee/vue-next/pkg/reactive"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	require.NotNil(t, m.Counter)
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	require.True(t, ok, "observer %T does not implement prometheus.Metric", o)
	var m dto.Metric
	require.NoError(t, metric.Write(&m))
	require.NotNil(t, m.Histogram)
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsObserverCountsEngineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewMetricsObserver(WithRegistry(reg))

	g := reactive.NewGraph()
	g.SetObserver(obs)

	r := reactive.NewRefIn(g, 0)
	e := g.NewEffect(func() reactive.Cleanup {
		_ = r.Value()
		return nil
	})
	r.SetValue(1)
	e.Stop()

	// Two runs, each recording one dependency.
	require.Equal(t, float64(2), metricCounterValue(t, obs.tracksTotal))
	require.Equal(t, float64(2), metricCounterValue(t, obs.effectRunsTotal))
	require.Equal(t, uint64(2), metricHistogramCount(t, obs.runDuration))

	// One set trigger reaching one effect.
	require.Equal(t, float64(1), metricCounterValue(t, obs.triggersTotal.WithLabelValues("set")))
	require.Equal(t, float64(1), metricCounterValue(t, obs.triggeredEffects))
}

func TestMetricsObserverTriggerKindLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewMetricsObserver(WithRegistry(reg))

	g := reactive.NewGraph()
	g.SetObserver(obs)

	obj := g.Reactive(map[string]any{"a": 1}).(*reactive.Object)
	obj.Set("b", 2)    // add
	obj.Set("b", 3)    // set
	obj.Delete("a")    // delete
	obj.Set("b", 3)    // no-op, no trigger

	require.Equal(t, float64(1), metricCounterValue(t, obs.triggersTotal.WithLabelValues("add")))
	require.Equal(t, float64(1), metricCounterValue(t, obs.triggersTotal.WithLabelValues("set")))
	require.Equal(t, float64(1), metricCounterValue(t, obs.triggersTotal.WithLabelValues("delete")))
}

func TestMetricsObserverCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsObserver(
		WithRegistry(reg),
		WithNamespace("myapp"),
		WithSubsystem("state"),
		WithConstLabels(prometheus.Labels{"graph": "main"}),
		WithBuckets([]float64{0.001, 0.01}),
	)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["myapp_state_effect_runs_total"], "families: %v", names)
	require.True(t, names["myapp_state_tracks_total"], "families: %v", names)
}
