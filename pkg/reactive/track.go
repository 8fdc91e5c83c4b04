package reactive

import (
	"fmt"
	"log"
	"sync/atomic"
)

// DevMode enables development-time warnings for API misuse (writes to
// readonly handles, assigning to getter-only computeds, wrapping ineligible
// values). Warnings are advisory: the offending operation is ignored and
// control flow is unchanged. Set at startup; not meant to be toggled while
// effects run.
var DevMode = false

func warnf(format string, args ...any) {
	if DevMode {
		log.Printf("reactive: "+format, args...)
	}
}

// globalIDCounter is the source of unique IDs for effects.
var globalIDCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// iterationKeyType is the reserved dependency key meaning "the set of keys
// changed". Effects that enumerate keys, check membership, or read a
// container's length subscribe under it; structural changes (add, delete,
// clear, length change) notify it.
type iterationKeyType struct{}

var iterationKey = iterationKeyType{}

// TriggerKind classifies a mutation for the trigger algorithm. Structural
// kinds (add, delete, clear) additionally notify iteration-key subscribers;
// a plain value change does not, since membership didn't change.
type TriggerKind int

const (
	TriggerSet TriggerKind = iota
	TriggerAdd
	TriggerDelete
	TriggerClear
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerSet:
		return "set"
	case TriggerAdd:
		return "add"
	case TriggerDelete:
		return "delete"
	case TriggerClear:
		return "clear"
	default:
		return "unknown"
	}
}

// track records that the effect currently running on this goroutine depends
// on (target, key): the effect is added to the key's dependency set and the
// set is back-linked onto the effect for unlink-on-rerun. No-op when no
// effect is running or tracking is paused.
func (g *Graph) track(target uintptr, key any) {
	e := g.currentEffect()
	if e == nil {
		return
	}

	g.mu.Lock()
	keys := g.store[target]
	if keys == nil {
		keys = make(map[any]*dep)
		g.store[target] = keys
	}
	d := keys[key]
	if d == nil {
		d = &dep{key: key}
		keys[key] = d
	}
	if d.add(e) {
		e.deps = append(e.deps, d)
	}
	g.mu.Unlock()

	if obs := g.currentObserver(); obs != nil {
		obs.Tracked(TrackEvent{Target: target, Key: formatKey(key), EffectID: e.ID()})
	}
}

// trigger notifies every effect subscribed to (target, key). Structural
// kinds union in the iteration-key subscribers; clear notifies every
// subscriber of the target. The union is deduplicated so an effect runs at
// most once per trigger, and effects are invoked (run or scheduled) only
// after all bookkeeping locks are released.
func (g *Graph) trigger(target uintptr, key any, kind TriggerKind) {
	g.mu.Lock()
	keys := g.store[target]
	var run []*Effect
	if keys != nil {
		seen := make(map[uint64]struct{})
		switch kind {
		case TriggerClear:
			for _, d := range keys {
				run = d.collect(seen, run)
			}
		case TriggerAdd, TriggerDelete:
			if d := keys[key]; d != nil {
				run = d.collect(seen, run)
			}
			if d := keys[iterationKey]; d != nil {
				run = d.collect(seen, run)
			}
		default:
			if d := keys[key]; d != nil {
				run = d.collect(seen, run)
			}
		}
	}
	g.mu.Unlock()

	if obs := g.currentObserver(); obs != nil {
		obs.Triggered(TriggerEvent{Target: target, Key: formatKey(key), Kind: kind, Effects: len(run)})
	}

	// Computed runners go first: they only flip dirty flags, and a plain
	// effect re-running in the same trigger must see those flags set before
	// it re-reads the computed.
	for _, e := range run {
		if e.computed {
			e.invoke()
		}
	}
	for _, e := range run {
		if !e.computed {
			e.invoke()
		}
	}
}

func formatKey(key any) string {
	if _, ok := key.(iterationKeyType); ok {
		return "<iterate>"
	}
	return fmt.Sprint(key)
}
