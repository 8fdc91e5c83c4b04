package reactive

import "testing"

func TestQueueBatchesMutations(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 0)
	q := NewQueue()

	runs := 0
	g.NewEffect(func() Cleanup {
		_ = r.Value()
		runs++
		return nil
	}, WithScheduler(q.Schedule))

	for i := 1; i <= 10; i++ {
		r.SetValue(i)
	}
	if runs != 1 {
		t.Fatalf("mutations should only schedule (runs=%d)", runs)
	}
	if q.Len() != 1 {
		t.Errorf("duplicate schedules should collapse (len=%d)", q.Len())
	}

	q.Flush()
	if runs != 2 {
		t.Errorf("flush should run the effect once (runs=%d)", runs)
	}
	if q.Len() != 0 {
		t.Errorf("queue should drain (len=%d)", q.Len())
	}
}

func TestQueueSkipsStoppedEffects(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 0)
	q := NewQueue()

	runs := 0
	e := g.NewEffect(func() Cleanup {
		_ = r.Value()
		runs++
		return nil
	}, WithScheduler(q.Schedule))

	r.SetValue(1)
	e.Stop()
	q.Flush()
	if runs != 1 {
		t.Errorf("flush ran a stopped effect (runs=%d)", runs)
	}
}

func TestQueueFlushDrainsReschedules(t *testing.T) {
	g := NewGraph()
	a := NewRefIn(g, 0)
	b := NewRefIn(g, 0)
	q := NewQueue()

	// The first effect writes b; the second reads b. A flush triggered by a
	// must carry the cascade through in the same flush.
	g.NewEffect(func() Cleanup {
		b.SetValue(a.Value())
		return nil
	}, WithScheduler(q.Schedule))

	var seen int
	g.NewEffect(func() Cleanup {
		seen = b.Value()
		return nil
	}, WithScheduler(q.Schedule))

	a.SetValue(42)
	q.Flush()
	if seen != 42 {
		t.Errorf("seen=%d after flush, want 42", seen)
	}
	if q.Len() != 0 {
		t.Errorf("queue should be empty after flush (len=%d)", q.Len())
	}
}

func TestQueueDistinctEffectsRunInOrder(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 0)
	q := NewQueue()

	var order []string
	g.NewEffect(func() Cleanup {
		_ = r.Value()
		order = append(order, "first")
		return nil
	}, WithScheduler(q.Schedule))
	g.NewEffect(func() Cleanup {
		_ = r.Value()
		order = append(order, "second")
		return nil
	}, WithScheduler(q.Schedule))

	order = nil
	r.SetValue(1)
	q.Flush()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v", order)
	}
}
