// Package reactive provides a fine-grained reactivity engine: an
// observable-state substrate where computations ("effects") automatically
// re-run whenever any of the mutable data they read later changes.
//
// # Core Types
//
// Ref[T] is a reactive box for a single value:
//
//	count := reactive.NewRef(0)
//	value := count.Value()  // Read (tracks the current effect)
//	count.SetValue(5)       // Write (re-runs subscribed effects)
//
// Reactive wraps a dynamic container so that every read is tracked and
// every mutation re-runs the effects that depend on it:
//
//	state := reactive.Reactive(map[string]any{"n": 1}).(*reactive.Object)
//	reactive.NewEffect(func() reactive.Cleanup {
//	    fmt.Println("n is", state.Get("n"))
//	    return nil
//	})
//	state.Set("n", 2) // effect re-runs
//
// Computed[T] is a lazy cached derivation:
//
//	doubled := reactive.NewComputed(func() int { return count.Value() * 2 })
//	value := doubled.Value() // Recomputes only if a dependency changed
//
// # Graphs
//
// All bookkeeping (the dependency store, handle memoization, tracking
// contexts) belongs to a Graph. The package-level API operates on a shared
// default graph; independent graphs can be created with NewGraph so that
// separate reactive worlds (for example, in tests) never interfere.
//
// # Concurrency
//
// The tracking context is per goroutine: effects track the dependencies
// read on the goroutine they run on. The engine is a single-threaded
// cooperative model per graph; bookkeeping is internally locked so that
// distinct goroutines may each drive their own effects, but one effect's
// run is never parallelized or preempted.
package reactive
