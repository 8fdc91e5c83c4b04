package reactive

// Computed is a lazy, cached derivation. The getter does not run at
// creation; it runs on first Value read and is then cached until a
// dependency changes. Invalidation is cheap: when a dependency triggers,
// the internal getter effect's scheduler only flips the dirty flag, and the
// actual recomputation is deferred until the next read.
//
// An effect that reads a computed adopts the computed's own dependencies,
// so mutating one of them re-runs the reader directly; chains of computeds
// therefore invalidate without a cascade of eager recomputation.
type Computed[T any] struct {
	g      *Graph
	runner *Effect
	value  T
	dirty  bool
	setter func(T)
}

// NewComputed creates a getter-only computed on the default graph.
func NewComputed[T any](getter func() T) *Computed[T] {
	return NewComputedIn(defaultGraph, getter)
}

// NewComputedIn creates a getter-only computed on graph g.
func NewComputedIn[T any](g *Graph, getter func() T) *Computed[T] {
	c := &Computed[T]{g: g, dirty: true}
	c.runner = g.NewEffect(func() Cleanup {
		c.value = getter()
		return nil
	}, Lazy(), asComputedRunner(), WithScheduler(func(*Effect) {
		c.dirty = true
	}))
	return c
}

// NewWritableComputed creates a computed with a custom setter on the
// default graph. Writing Value invokes the setter; the getter still drives
// the cached value.
func NewWritableComputed[T any](getter func() T, setter func(T)) *Computed[T] {
	return NewWritableComputedIn(defaultGraph, getter, setter)
}

// NewWritableComputedIn creates a writable computed on graph g.
func NewWritableComputedIn[T any](g *Graph, getter func() T, setter func(T)) *Computed[T] {
	c := NewComputedIn(g, getter)
	c.setter = setter
	return c
}

// Value returns the cached value, recomputing it first if a dependency
// changed since the last read. When called inside a running effect, the
// effect adopts this computed's dependencies.
func (c *Computed[T]) Value() T {
	if c.dirty {
		c.runner.Run()
		c.dirty = false
	}
	c.adoptDeps()
	return c.value
}

// SetValue invokes the setter. Getter-only computeds warn and ignore the
// write.
func (c *Computed[T]) SetValue(v T) {
	if c.setter == nil {
		warnf("SetValue on getter-only computed ignored")
		return
	}
	c.setter(v)
}

// Writable reports whether the computed accepts writes.
func (c *Computed[T]) Writable() bool {
	return c.setter != nil
}

// Stop disposes the internal getter effect; the last cached value keeps
// being served and never invalidates again.
func (c *Computed[T]) Stop() {
	c.runner.Stop()
}

// adoptDeps links the currently running effect to every dependency the
// getter recorded, so the reader re-runs when any of them changes.
func (c *Computed[T]) adoptDeps() {
	parent := c.g.currentEffect()
	if parent == nil || parent == c.runner {
		return
	}
	c.g.mu.Lock()
	for _, d := range c.runner.deps {
		if d.add(parent) {
			parent.deps = append(parent.deps, d)
		}
	}
	c.g.mu.Unlock()
}

func (c *Computed[T]) refValue() any { return c.Value() }

func (c *Computed[T]) setRefValue(v any) bool {
	if c.setter == nil {
		warnf("SetValue on getter-only computed ignored")
		return false
	}
	if v == nil {
		var zero T
		c.setter(zero)
		return true
	}
	t, ok := v.(T)
	if !ok {
		warnf("cannot assign %T into Computed[%T]", v, c.value)
		return false
	}
	c.setter(t)
	return true
}
