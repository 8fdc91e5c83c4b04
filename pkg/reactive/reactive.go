package reactive

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// wrapMode selects the interception policy of a handle.
type wrapMode uint8

const (
	modeReactive wrapMode = iota
	modeReadonly
	modeShallow
	modeShallowReadonly
)

func (m wrapMode) readonly() bool {
	return m == modeReadonly || m == modeShallowReadonly
}

func (m wrapMode) shallow() bool {
	return m == modeShallow || m == modeShallowReadonly
}

// targetKind classifies the eligible container types.
type targetKind uint8

const (
	kindObject targetKind = iota
	kindList
	kindMap
	kindSet
)

// Handle is the interception wrapper around exactly one target. Concrete
// handles are *Object, *List, *Map and *Set.
type Handle interface {
	// Raw returns the underlying target, unwrapping exactly one level.
	Raw() any

	graphOf() *Graph
	mode() wrapMode
	identity() uintptr
}

// identityOf resolves an eligible target to its stable identity. Identity
// is the referent pointer, so two handles over the same map or slice
// pointer compare as the same target.
func identityOf(v any) (uintptr, targetKind, bool) {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return 0, 0, false
		}
		return reflect.ValueOf(t).Pointer(), kindObject, true
	case *[]any:
		if t == nil {
			return 0, 0, false
		}
		return reflect.ValueOf(t).Pointer(), kindList, true
	case map[any]any:
		if t == nil {
			return 0, 0, false
		}
		return reflect.ValueOf(t).Pointer(), kindMap, true
	case mapset.Set[any]:
		rv := reflect.ValueOf(t)
		switch rv.Kind() {
		case reflect.Map, reflect.Pointer:
			return rv.Pointer(), kindSet, true
		}
		return 0, 0, false
	}
	return 0, 0, false
}

func isEligible(v any) bool {
	if _, ok := v.(Handle); ok {
		return false
	}
	_, _, ok := identityOf(v)
	return ok
}

// Reactive wraps an eligible container in a deeply reactive handle: reads
// are tracked, mutations trigger, and nested eligible values are wrapped
// lazily on first read. Ineligible values, already-wrapped handles, refs
// and targets tagged by MarkNonReactive are returned unchanged.
func (g *Graph) Reactive(target any) any { return g.wrap(target, modeReactive) }

// Readonly wraps an eligible container in a deeply readonly handle: reads
// are still tracked, every mutator warns and is ignored, and nested values
// wrap as readonly. Wrapping a reactive handle wraps its raw target.
func (g *Graph) Readonly(target any) any { return g.wrap(target, modeReadonly) }

// ShallowReactive is Reactive without recursive wrapping of nested values.
func (g *Graph) ShallowReactive(target any) any { return g.wrap(target, modeShallow) }

// ShallowReadonly is Readonly without recursive wrapping of nested values.
func (g *Graph) ShallowReadonly(target any) any { return g.wrap(target, modeShallowReadonly) }

func (g *Graph) wrap(target any, m wrapMode) any {
	if target == nil {
		return nil
	}
	if h, ok := target.(Handle); ok {
		if m.readonly() && !h.mode().readonly() {
			// readonly(reactive(x)) guards the underlying raw target.
			target = h.Raw()
		} else {
			return target
		}
	}
	if _, ok := target.(anyRef); ok {
		return target
	}

	id, kind, ok := identityOf(target)
	if !ok {
		warnf("value of type %T cannot be made reactive", target)
		return target
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, tagged := g.nonReactive[id]; tagged {
		return target
	}
	table := g.handleTable(m)
	if h, ok := table[id]; ok {
		return h
	}

	var h any
	switch kind {
	case kindObject:
		h = &Object{g: g, raw: target.(map[string]any), id: id, m: m}
	case kindList:
		h = &List{g: g, raw: target.(*[]any), id: id, m: m}
	case kindMap:
		h = &Map{g: g, raw: target.(map[any]any), id: id, m: m}
	case kindSet:
		h = &Set{g: g, raw: target.(mapset.Set[any]), id: id, m: m}
	}
	table[id] = h
	return h
}

func (g *Graph) handleTable(m wrapMode) map[uintptr]any {
	switch m {
	case modeReadonly:
		return g.readonlyHandles
	case modeShallow:
		return g.shallowHandles
	case modeShallowReadonly:
		return g.shallowReadonlyHandles
	default:
		return g.reactiveHandles
	}
}

// wrapNested applies the lazy wrap-on-read policy for a value read out of a
// non-shallow handle: eligible children wrap in the parent's flavor.
func (g *Graph) wrapNested(v any, parentReadonly bool) any {
	if !isEligible(v) {
		return v
	}
	if parentReadonly {
		return g.Readonly(v)
	}
	return g.Reactive(v)
}

// MarkNonReactive tags a target so every future wrap attempt returns it
// unchanged. The tag is idempotent and applies per graph. Returns target.
func (g *Graph) MarkNonReactive(target any) any {
	id, _, ok := identityOf(target)
	if !ok {
		warnf("value of type %T cannot be marked non-reactive", target)
		return target
	}
	g.mu.Lock()
	g.nonReactive[id] = struct{}{}
	g.mu.Unlock()
	return target
}

// IsReactive reports whether v is a mutable reactive handle (deep or
// shallow). Readonly handles report false here and true from IsReadonly.
func IsReactive(v any) bool {
	h, ok := v.(Handle)
	return ok && !h.mode().readonly()
}

// IsReadonly reports whether v is a readonly handle (deep or shallow).
func IsReadonly(v any) bool {
	h, ok := v.(Handle)
	return ok && h.mode().readonly()
}

// ToRaw returns the plain target underneath a handle, recursing through
// nested handles. Non-handles are returned unchanged.
func ToRaw(v any) any {
	for {
		h, ok := v.(Handle)
		if !ok {
			return v
		}
		v = h.Raw()
	}
}

// toRawValue unwraps one-or-more handle levels without tracking.
func toRawValue(v any) any { return ToRaw(v) }

// Package-level convenience API over the default graph.

// Reactive wraps target in a deeply reactive handle on the default graph.
func Reactive(target any) any { return defaultGraph.Reactive(target) }

// Readonly wraps target in a deeply readonly handle on the default graph.
func Readonly(target any) any { return defaultGraph.Readonly(target) }

// ShallowReactive wraps target without recursive wrapping.
func ShallowReactive(target any) any { return defaultGraph.ShallowReactive(target) }

// ShallowReadonly wraps target readonly without recursive wrapping.
func ShallowReadonly(target any) any { return defaultGraph.ShallowReadonly(target) }

// MarkNonReactive tags target as never-wrappable on the default graph.
func MarkNonReactive(target any) any { return defaultGraph.MarkNonReactive(target) }
