package reactive

import "testing"

func TestComputedLazyAndCached(t *testing.T) {
	g := NewGraph()
	n := NewRefIn(g, 2)

	computes := 0
	double := NewComputedIn(g, func() int {
		computes++
		return n.Value() * 2
	})

	if computes != 0 {
		t.Fatal("getter should not run at creation")
	}
	if double.Value() != 4 || computes != 1 {
		t.Fatalf("first read: value=%d computes=%d", double.Value(), computes)
	}

	// Repeated reads hit the cache.
	_ = double.Value()
	_ = double.Value()
	if computes != 1 {
		t.Errorf("cached reads recomputed (computes=%d)", computes)
	}
}

func TestComputedInvalidatesLazily(t *testing.T) {
	g := NewGraph()
	n := NewRefIn(g, 1)

	computes := 0
	c := NewComputedIn(g, func() int {
		computes++
		return n.Value() + 1
	})
	_ = c.Value()

	// Mutation only marks dirty; the getter runs on the next read.
	n.SetValue(2)
	n.SetValue(3)
	if computes != 1 {
		t.Errorf("mutation should not recompute eagerly (computes=%d)", computes)
	}
	if c.Value() != 4 || computes != 2 {
		t.Errorf("next read should recompute once: value=%d computes=%d", c.Value(), computes)
	}
}

func TestEffectDependsOnComputed(t *testing.T) {
	g := NewGraph()
	n := NewRefIn(g, 1)
	double := NewComputedIn(g, func() int { return n.Value() * 2 })

	var seen int
	runs := 0
	g.NewEffect(func() Cleanup {
		seen = double.Value()
		runs++
		return nil
	})

	if runs != 1 || seen != 2 {
		t.Fatalf("initial: runs=%d seen=%d", runs, seen)
	}
	n.SetValue(5)
	if runs != 2 || seen != 10 {
		t.Errorf("after mutation: runs=%d seen=%d, want 2 and 10", runs, seen)
	}

	// An equal write does not re-run the reader.
	n.SetValue(5)
	if runs != 2 {
		t.Errorf("no-op write re-ran the reader (runs=%d)", runs)
	}
}

func TestComputedChain(t *testing.T) {
	g := NewGraph()
	n := NewRefIn(g, 1)
	double := NewComputedIn(g, func() int { return n.Value() * 2 })
	quad := NewComputedIn(g, func() int { return double.Value() * 2 })

	var seen int
	g.NewEffect(func() Cleanup {
		seen = quad.Value()
		return nil
	})

	if seen != 4 {
		t.Fatalf("seen=%d, want 4", seen)
	}
	n.SetValue(3)
	if seen != 12 {
		t.Errorf("seen=%d after mutation, want 12", seen)
	}
}

func TestComputedDiamond(t *testing.T) {
	g := NewGraph()
	n := NewRefIn(g, 1)
	a := NewComputedIn(g, func() int { return n.Value() + 1 })
	b := NewComputedIn(g, func() int { return n.Value() * 10 })

	var seen int
	runs := 0
	g.NewEffect(func() Cleanup {
		seen = a.Value() + b.Value()
		runs++
		return nil
	})

	if seen != 12 {
		t.Fatalf("seen=%d, want 12", seen)
	}
	n.SetValue(2)
	if seen != 23 {
		t.Errorf("seen=%d, want 23", seen)
	}
	if runs != 2 {
		t.Errorf("diamond should converge to one re-run per mutation (runs=%d)", runs)
	}
}

func TestWritableComputed(t *testing.T) {
	g := NewGraph()
	n := NewRefIn(g, 1)
	c := NewWritableComputedIn(g,
		func() int { return n.Value() + 1 },
		func(v int) { n.SetValue(v - 1) },
	)

	if !c.Writable() {
		t.Fatal("Writable should report true")
	}
	c.SetValue(10)
	if n.Value() != 9 {
		t.Errorf("setter should write through: n=%d", n.Value())
	}
	if c.Value() != 10 {
		t.Errorf("Value=%d after write, want 10", c.Value())
	}
}

func TestGetterOnlyComputedIgnoresWrites(t *testing.T) {
	g := NewGraph()
	c := NewComputedIn(g, func() int { return 1 })

	if c.Writable() {
		t.Error("getter-only computed should report not writable")
	}
	c.SetValue(99)
	if c.Value() != 1 {
		t.Errorf("write should be ignored, Value=%d", c.Value())
	}
}

func TestComputedOverReactiveObject(t *testing.T) {
	g := NewGraph()
	obj := g.Reactive(map[string]any{"first": "Ada", "last": "Lovelace"}).(*Object)

	full := NewComputedIn(g, func() string {
		return obj.Get("first").(string) + " " + obj.Get("last").(string)
	})

	var seen string
	g.NewEffect(func() Cleanup {
		seen = full.Value()
		return nil
	})

	obj.Set("first", "Grace")
	if seen != "Grace Lovelace" {
		t.Errorf("seen=%q", seen)
	}
}

func TestComputedStop(t *testing.T) {
	g := NewGraph()
	n := NewRefIn(g, 1)

	computes := 0
	c := NewComputedIn(g, func() int {
		computes++
		return n.Value()
	})
	_ = c.Value()

	c.Stop()
	n.SetValue(5)
	if c.Value() != 1 {
		t.Errorf("stopped computed should serve the last cached value, got %d", c.Value())
	}
	if computes != 1 {
		t.Errorf("stopped computed recomputed (computes=%d)", computes)
	}
}

func TestComputedIsRef(t *testing.T) {
	g := NewGraph()
	c := NewComputedIn(g, func() int { return 1 })
	if !IsRef(c) {
		t.Error("computeds should satisfy the ref contract")
	}
}
