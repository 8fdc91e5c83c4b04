package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// Graph owns the bookkeeping for one independent reactive world: the
// dependency store, the handle memoization tables, the non-reactive marker
// set, and the per-goroutine tracking contexts.
//
// The package-level API (Reactive, NewRef, NewEffect, ...) operates on a
// shared default graph; create separate graphs with NewGraph when isolation
// matters (tests, embedded sub-systems).
type Graph struct {
	// mu guards the dependency store, the memoization tables, the
	// non-reactive set, and effect back-link bookkeeping. It is never held
	// while user code (effect bodies, schedulers, observers) runs.
	mu sync.Mutex

	// store maps target identity -> property key -> dependency set.
	store map[uintptr]map[any]*dep

	// Handle memoization, one table per wrap mode. Wrapping the same target
	// in the same mode always yields the same handle.
	reactiveHandles        map[uintptr]any
	readonlyHandles        map[uintptr]any
	shallowHandles         map[uintptr]any
	shallowReadonlyHandles map[uintptr]any

	// nonReactive holds identities tagged by MarkNonReactive.
	nonReactive map[uintptr]struct{}

	// contexts stores per-goroutine tracking state (goroutine ID -> *gctx).
	// Contexts are lightweight and are reused when goroutine IDs recycle.
	contexts sync.Map

	obsMu    sync.RWMutex
	observer Observer
}

// gctx is the tracking context confined to a single goroutine: the stack of
// currently running effects plus the pause counter for the global tracking
// switch. It is only ever touched by its own goroutine, so no locking.
type gctx struct {
	stack  []*Effect
	paused int
}

// NewGraph creates an empty, independent reactive graph.
func NewGraph() *Graph {
	return &Graph{
		store:                  make(map[uintptr]map[any]*dep),
		reactiveHandles:        make(map[uintptr]any),
		readonlyHandles:        make(map[uintptr]any),
		shallowHandles:         make(map[uintptr]any),
		shallowReadonlyHandles: make(map[uintptr]any),
		nonReactive:            make(map[uintptr]struct{}),
	}
}

var defaultGraph = NewGraph()

// Default returns the graph backing the package-level API.
func Default() *Graph {
	return defaultGraph
}

// state returns the tracking context for the current goroutine, creating
// it on first use.
func (g *Graph) state() *gctx {
	gid := goid.Get()
	if v, ok := g.contexts.Load(gid); ok {
		return v.(*gctx)
	}
	st := &gctx{}
	g.contexts.Store(gid, st)
	return st
}

// currentEffect returns the effect currently running on this goroutine,
// or nil when none is running or tracking is paused.
func (g *Graph) currentEffect() *Effect {
	st := g.state()
	if st.paused > 0 || len(st.stack) == 0 {
		return nil
	}
	return st.stack[len(st.stack)-1]
}

// Untracked runs fn with dependency tracking paused: reads performed inside
// do not subscribe the currently running effect.
func (g *Graph) Untracked(fn func()) {
	st := g.state()
	st.paused++
	defer func() { st.paused-- }()
	fn()
}

// PauseTracking disables dependency tracking on the current goroutine until
// a matching ResumeTracking. Calls nest.
func (g *Graph) PauseTracking() {
	g.state().paused++
}

// ResumeTracking re-enables dependency tracking after PauseTracking.
func (g *Graph) ResumeTracking() {
	st := g.state()
	if st.paused == 0 {
		warnf("ResumeTracking without matching PauseTracking")
		return
	}
	st.paused--
}

// SetObserver installs an observer receiving track/trigger/effect-run
// events, or removes it when obs is nil. Intended for instrumentation and
// inspection; observers must not mutate reactive state.
func (g *Graph) SetObserver(obs Observer) {
	g.obsMu.Lock()
	g.observer = obs
	g.obsMu.Unlock()
}

func (g *Graph) currentObserver() Observer {
	g.obsMu.RLock()
	obs := g.observer
	g.obsMu.RUnlock()
	return obs
}

// Release evicts all bookkeeping for a target: its memoized handles and its
// dependency-store entry. Effects keep running but are no longer linked to
// the target. Use this to bound memory when a target outlives its usefulness
// before the graph itself is released.
func (g *Graph) Release(target any) {
	id, _, ok := identityOf(toRawValue(target))
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if keys, ok := g.store[id]; ok {
		for _, d := range keys {
			d.clear()
		}
		delete(g.store, id)
	}
	delete(g.reactiveHandles, id)
	delete(g.readonlyHandles, id)
	delete(g.shallowHandles, id)
	delete(g.shallowReadonlyHandles, id)
	delete(g.nonReactive, id)
}

// Package-level convenience API over the default graph.

// Untracked runs fn with dependency tracking paused on the default graph.
func Untracked(fn func()) { defaultGraph.Untracked(fn) }

// PauseTracking pauses tracking on the default graph for this goroutine.
func PauseTracking() { defaultGraph.PauseTracking() }

// ResumeTracking resumes tracking on the default graph for this goroutine.
func ResumeTracking() { defaultGraph.ResumeTracking() }

// SetObserver installs an observer on the default graph.
func SetObserver(obs Observer) { defaultGraph.SetObserver(obs) }

// Release evicts a target's bookkeeping from the default graph.
func Release(target any) { defaultGraph.Release(target) }
