package reactive

import (
	"sync/atomic"
	"time"
)

// Cleanup is a function returned by an effect body to release resources.
// It runs before the effect re-runs and when the effect is stopped.
type Cleanup func()

// Effect is a re-runnable unit of computation. While it runs, every
// reactive read it performs subscribes it to that dependency; when any
// subscribed dependency is later mutated, the effect re-runs (or its
// custom scheduler is invoked instead).
//
// On each run the effect is first removed from every dependency set it was
// linked to, so dependency sets reflect exactly what the most recent run
// read.
type Effect struct {
	id uint64
	g  *Graph

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the cleanup returned by the last run.
	cleanup Cleanup

	// deps are back-links to every dependency set this effect currently
	// belongs to. Guarded by g.mu.
	deps []*dep

	// scheduler, when set, is invoked on trigger instead of Run.
	scheduler func(*Effect)

	lazy bool

	// computed marks the internal runner of a Computed. Triggers invoke
	// computed runners before plain effects so dirty flags are set by the
	// time a re-running effect reads the computed.
	computed bool

	active  atomic.Bool
	running atomic.Bool
}

// EffectOption configures an Effect at creation.
type EffectOption interface {
	isEffectOption()
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) isEffectOption()       {}
func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// Lazy prevents the initial run at creation; the effect only runs when
// invoked directly or when first triggered through a dependency recorded
// by a later run.
func Lazy() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.lazy = true
	})
}

// asComputedRunner marks the effect as a computed's internal runner.
func asComputedRunner() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.computed = true
	})
}

// WithScheduler installs a custom scheduler: when a dependency triggers,
// the scheduler is called with the effect instead of re-running it
// immediately. This is the hook for batching or async re-render policies;
// the engine itself never batches.
func WithScheduler(fn func(*Effect)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = fn
	})
}

// NewEffect creates an effect on this graph and, unless Lazy was given,
// runs it once immediately to record its initial dependencies.
func (g *Graph) NewEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	e := &Effect{
		id: nextID(),
		g:  g,
		fn: fn,
	}
	e.active.Store(true)
	for _, opt := range opts {
		opt.applyEffect(e)
	}
	if !e.lazy {
		e.Run()
	}
	return e
}

// NewEffect creates an effect on the default graph.
func NewEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	return defaultGraph.NewEffect(fn, opts...)
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active.Load()
}

func (e *Effect) isRunning() bool {
	return e.running.Load()
}

// Run executes the effect body with dependency tracking.
//
// A stopped effect still executes its body, but without any tracking.
// A panic in the body propagates to the caller after the tracking stack
// has been restored, so a failing run never corrupts the context for
// subsequent operations.
func (e *Effect) Run() {
	if !e.active.Load() {
		e.runBody()
		return
	}
	if e.running.Load() {
		// Already on the stack: a self-recursive invocation is dropped.
		return
	}

	e.releaseDeps()

	st := e.g.state()
	st.stack = append(st.stack, e)
	e.running.Store(true)
	start := time.Now()

	defer func() {
		st.stack = st.stack[:len(st.stack)-1]
		e.running.Store(false)
		if obs := e.g.currentObserver(); obs != nil {
			obs.EffectRan(EffectRunEvent{EffectID: e.id, Duration: time.Since(start)})
		}
	}()

	e.runBody()
}

// runBody runs the previous cleanup, then the body, keeping any new cleanup.
func (e *Effect) runBody() {
	if c := e.cleanup; c != nil {
		e.cleanup = nil
		c()
	}
	if e.fn == nil {
		return
	}
	if c := e.fn(); c != nil {
		e.cleanup = c
	}
}

// invoke is the trigger path: run immediately or hand off to the scheduler.
func (e *Effect) invoke() {
	if !e.active.Load() {
		return
	}
	if e.scheduler != nil {
		e.scheduler(e)
		return
	}
	e.Run()
}

// releaseDeps unlinks the effect from every dependency set it belongs to.
// Called before each run (unlink-then-relink) and on Stop.
func (e *Effect) releaseDeps() {
	e.g.mu.Lock()
	for _, d := range e.deps {
		d.remove(e.id)
	}
	e.deps = e.deps[:0]
	e.g.mu.Unlock()
}

// Stop disposes the effect: it is removed from every dependency set, its
// cleanup runs, and it will never be triggered again. The body can still be
// executed manually via Run, but without tracking.
func (e *Effect) Stop() {
	if !e.active.Swap(false) {
		return
	}
	e.releaseDeps()
	if c := e.cleanup; c != nil {
		e.cleanup = nil
		c()
	}
}
