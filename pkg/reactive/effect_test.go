package reactive

import "testing"

func TestEffectRunsOnCreate(t *testing.T) {
	g := NewGraph()

	ran := false
	g.NewEffect(func() Cleanup {
		ran = true
		return nil
	})
	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestEffectLazyOption(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 1)

	runs := 0
	e := g.NewEffect(func() Cleanup {
		_ = r.Value()
		runs++
		return nil
	}, Lazy())

	if runs != 0 {
		t.Fatal("lazy effect should not run at creation")
	}

	// Until it runs once, it has no dependencies to trigger.
	r.SetValue(2)
	if runs != 0 {
		t.Error("lazy effect triggered before its first run")
	}

	e.Run()
	if runs != 1 {
		t.Fatal("direct Run should execute the body")
	}
	r.SetValue(3)
	if runs != 2 {
		t.Error("after the first run, dependencies should trigger")
	}
}

func TestEffectUnlinkThenRelink(t *testing.T) {
	g := NewGraph()
	flag := NewRefIn(g, true)
	a := NewRefIn(g, "a")
	b := NewRefIn(g, "b")

	var seen string
	runs := 0
	g.NewEffect(func() Cleanup {
		if flag.Value() {
			seen = a.Value()
		} else {
			seen = b.Value()
		}
		runs++
		return nil
	})

	flag.SetValue(false)
	if runs != 2 || seen != "b" {
		t.Fatalf("runs=%d seen=%q", runs, seen)
	}

	// The previous run's dependency on a must be gone.
	a.SetValue("A")
	if runs != 2 {
		t.Errorf("stale dependency re-ran the effect (runs=%d)", runs)
	}
	b.SetValue("B")
	if runs != 3 || seen != "B" {
		t.Errorf("live dependency should re-run the effect (runs=%d seen=%q)", runs, seen)
	}
}

func TestEffectStop(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 1)

	runs := 0
	e := g.NewEffect(func() Cleanup {
		_ = r.Value()
		runs++
		return nil
	})

	e.Stop()
	if e.Active() {
		t.Error("stopped effect should report inactive")
	}
	r.SetValue(2)
	if runs != 1 {
		t.Errorf("stopped effect re-ran (runs=%d)", runs)
	}

	// A stopped effect can still be run manually, but without tracking.
	e.Run()
	if runs != 2 {
		t.Fatal("manual run of a stopped effect should execute the body")
	}
	r.SetValue(3)
	if runs != 2 {
		t.Errorf("manual run of a stopped effect must not track (runs=%d)", runs)
	}

	// Stop is idempotent.
	e.Stop()
}

func TestEffectCleanupRunsBeforeRerunAndOnStop(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 0)

	cleanups := 0
	e := g.NewEffect(func() Cleanup {
		_ = r.Value()
		return func() { cleanups++ }
	})

	if cleanups != 0 {
		t.Fatal("cleanup should not run on the first run")
	}
	r.SetValue(1)
	if cleanups != 1 {
		t.Errorf("cleanup should run before a re-run (cleanups=%d)", cleanups)
	}
	e.Stop()
	if cleanups != 2 {
		t.Errorf("cleanup should run on Stop (cleanups=%d)", cleanups)
	}
}

func TestEffectCustomScheduler(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 1)

	runs := 0
	var scheduled []*Effect
	e := g.NewEffect(func() Cleanup {
		_ = r.Value()
		runs++
		return nil
	}, WithScheduler(func(e *Effect) {
		scheduled = append(scheduled, e)
	}))

	r.SetValue(2)
	if runs != 1 {
		t.Error("scheduler should replace the immediate re-run")
	}
	if len(scheduled) != 1 || scheduled[0] != e {
		t.Fatalf("scheduler received %v", scheduled)
	}

	scheduled[0].Run()
	if runs != 2 {
		t.Error("running the scheduled effect should execute the body")
	}
}

func TestEffectSelfWriteDoesNotLoop(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 0)

	runs := 0
	g.NewEffect(func() Cleanup {
		runs++
		if runs > 10 {
			t.Fatal("effect retriggered itself")
		}
		// Read and write the same dependency inside the body.
		r.SetValue(r.Value() + 1)
		return nil
	})

	if runs != 1 {
		t.Fatalf("runs=%d, want 1", runs)
	}
	if r.Value() != 1 {
		t.Errorf("value=%d, want 1", r.Value())
	}

	// An outside write still re-runs it exactly once.
	r.SetValue(10)
	if runs != 2 {
		t.Errorf("runs=%d, want 2", runs)
	}
}

func TestEffectDedupAcrossKeys(t *testing.T) {
	g := NewGraph()
	obj := g.Reactive(map[string]any{"a": 1}).(*Object)

	runs := 0
	g.NewEffect(func() Cleanup {
		// Subscribed under both the key and the iteration key.
		_ = obj.Get("b")
		_ = obj.Keys()
		runs++
		return nil
	})

	// An addition notifies both subscriptions; the effect must run once.
	obj.Set("b", 2)
	if runs != 2 {
		t.Errorf("effect ran %d times for one trigger, want 2 total", runs)
	}
}

func TestEffectBodyPanicKeepsContextUsable(t *testing.T) {
	g := NewGraph()
	r := NewRefIn(g, 0)

	boom := g.NewEffect(func() Cleanup {
		if r.Value() > 0 {
			panic("boom")
		}
		return nil
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("the body's panic should propagate to the mutator")
			}
		}()
		r.SetValue(1)
	}()
	boom.Stop()

	// The tracking context must be intact: a fresh effect tracks normally.
	runs := 0
	g.NewEffect(func() Cleanup {
		_ = r.Value()
		runs++
		return nil
	})
	r.SetValue(2)
	if runs != 2 {
		t.Errorf("tracking broken after a panicking run (runs=%d)", runs)
	}
}

func TestNestedEffectsTrackIndependently(t *testing.T) {
	g := NewGraph()
	outer := NewRefIn(g, 0)
	inner := NewRefIn(g, 0)

	outerRuns, innerRuns := 0, 0
	g.NewEffect(func() Cleanup {
		_ = outer.Value()
		outerRuns++
		g.NewEffect(func() Cleanup {
			_ = inner.Value()
			innerRuns++
			return nil
		})
		return nil
	})

	// The inner read must attribute to the inner effect only.
	inner.SetValue(1)
	if outerRuns != 1 {
		t.Errorf("inner dependency re-ran the outer effect (runs=%d)", outerRuns)
	}
	if innerRuns != 2 {
		t.Errorf("inner effect should re-run (runs=%d)", innerRuns)
	}
}
