package reactive

import "reflect"

// anyRef is the type-erased contract every ref-shaped value satisfies:
// Ref[T], ObjectRef and Computed[T]. The proxy layer uses it to auto-unwrap
// refs stored inside reactive objects and to apply the asymmetric write
// rule.
type anyRef interface {
	// refValue reads the inner value with tracking.
	refValue() any

	// setRefValue writes the inner value, reporting whether the write was
	// accepted (getter-only computeds and type mismatches reject it).
	setRefValue(v any) bool
}

// IsRef reports whether v is a ref-shaped value (Ref, ObjectRef, Computed).
func IsRef(v any) bool {
	_, ok := v.(anyRef)
	return ok
}

// Ref is a single-value reactive box. The proxy layer cannot intercept
// reads of a bare value, so a ref offers the same track/trigger contract
// through an explicit accessor pair: Value tracks, SetValue triggers when
// the value actually changed.
//
// When a ref is stored as a property of a reactive Object, reading that
// property yields the inner value directly, and assigning a plain value
// writes through into the ref (see Object.Set).
type Ref[T any] struct {
	g     *Graph
	id    uintptr
	value T
}

// NewRef creates a ref on the default graph.
func NewRef[T any](initial T) *Ref[T] {
	return NewRefIn(defaultGraph, initial)
}

// NewRefIn creates a ref whose dependencies live in graph g.
func NewRefIn[T any](g *Graph, initial T) *Ref[T] {
	r := &Ref[T]{g: g, value: initial}
	r.id = reflect.ValueOf(r).Pointer()
	return r
}

// Value returns the current value, tracking the currently running effect.
func (r *Ref[T]) Value() T {
	r.g.track(r.id, refValueKey)
	return r.value
}

// SetValue replaces the value and re-runs subscribed effects, unless the
// new value is the same as the old one.
func (r *Ref[T]) SetValue(v T) {
	if sameValue(r.value, v) {
		return
	}
	r.value = v
	r.g.trigger(r.id, refValueKey, TriggerSet)
}

func (r *Ref[T]) refValue() any { return r.Value() }

func (r *Ref[T]) setRefValue(v any) bool {
	if v == nil {
		var zero T
		r.SetValue(zero)
		return true
	}
	t, ok := v.(T)
	if !ok {
		warnf("cannot assign %T into Ref[%T]", v, r.value)
		return false
	}
	r.SetValue(t)
	return true
}

// refValueKey is the single fixed dependency key of a ref.
const refValueKey = "value"

// ObjectRef is a ref that proxies reads and writes to one property of a
// reactive Object, so destructured state keeps its reactivity link.
type ObjectRef struct {
	source *Object
	key    string
}

// Value reads the source property (tracked through the object).
func (r *ObjectRef) Value() any { return r.source.Get(r.key) }

// SetValue writes the source property (triggering through the object).
func (r *ObjectRef) SetValue(v any) { r.source.Set(r.key, v) }

// Key returns the property this ref proxies.
func (r *ObjectRef) Key() string { return r.key }

func (r *ObjectRef) refValue() any { return r.Value() }

func (r *ObjectRef) setRefValue(v any) bool {
	r.SetValue(v)
	return true
}

// ToRef creates a ref proxying one property of a reactive object.
func ToRef(obj *Object, key string) *ObjectRef {
	return &ObjectRef{source: obj, key: key}
}

// ToRefs creates a ref per current property of a reactive object. Each ref
// proxies reads and writes back to the object, so passing the mapping
// around does not sever reactivity. The property listing itself is not
// tracked.
func ToRefs(obj *Object) map[string]*ObjectRef {
	out := make(map[string]*ObjectRef, len(obj.raw))
	for k := range obj.raw {
		out[k] = &ObjectRef{source: obj, key: k}
	}
	return out
}
