package reactive

import "sort"

// Object is the reactive handle over a record-like target (map[string]any).
//
// Reads track the (target, key) dependency; non-shallow reads lazily wrap
// eligible nested values; ref-valued slots auto-unwrap. Writes trigger
// subscribed effects, with "add" and "delete" additionally notifying
// effects that enumerated keys or checked membership.
type Object struct {
	g   *Graph
	raw map[string]any
	id  uintptr
	m   wrapMode
}

// Raw returns the underlying map.
func (o *Object) Raw() any { return o.raw }

func (o *Object) graphOf() *Graph   { return o.g }
func (o *Object) mode() wrapMode    { return o.m }
func (o *Object) identity() uintptr { return o.id }

// Get reads a property. A slot holding a ref yields the ref's inner value
// (auto-unwrap); an eligible nested container wraps lazily unless the
// handle is shallow.
func (o *Object) Get(key string) any {
	o.g.track(o.id, key)
	v := o.raw[key]
	if r, ok := v.(anyRef); ok {
		return r.refValue()
	}
	if o.m.shallow() {
		return v
	}
	return o.g.wrapNested(v, o.m.readonly())
}

// Set writes a property. On readonly handles the write warns and is
// ignored. If the slot currently holds a ref and the incoming value is not
// itself a ref, the write lands inside the ref (its other holders observe
// the new value); an incoming ref replaces the slot wholesale. No-op
// writes (same value, NaN included) trigger nothing; additions notify
// iteration-key subscribers as well.
func (o *Object) Set(key string, value any) {
	if o.m.readonly() {
		warnf("Set(%q) on readonly object ignored", key)
		return
	}
	old, had := o.raw[key]
	if had {
		if r, ok := old.(anyRef); ok {
			if _, incomingRef := value.(anyRef); !incomingRef {
				r.setRefValue(value)
				return
			}
		}
	}
	o.raw[key] = value
	if !had {
		o.g.trigger(o.id, key, TriggerAdd)
	} else if !sameValue(old, value) {
		o.g.trigger(o.id, key, TriggerSet)
	}
}

// Delete removes a property, reporting whether it existed. Deletion
// notifies the key's subscribers and iteration-key subscribers.
func (o *Object) Delete(key string) bool {
	if o.m.readonly() {
		warnf("Delete(%q) on readonly object ignored", key)
		return false
	}
	if _, had := o.raw[key]; !had {
		return false
	}
	delete(o.raw, key)
	o.g.trigger(o.id, key, TriggerDelete)
	return true
}

// Has reports key membership. Membership depends on the key set, so it
// tracks the iteration key: adding or removing any key re-runs the checker.
func (o *Object) Has(key string) bool {
	o.g.track(o.id, iterationKey)
	_, ok := o.raw[key]
	return ok
}

// Keys returns the property names in sorted order, tracking the iteration
// key.
func (o *Object) Keys() []string {
	o.g.track(o.id, iterationKey)
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of properties, tracking the iteration key.
func (o *Object) Len() int {
	o.g.track(o.id, iterationKey)
	return len(o.raw)
}

// Snapshot returns a shallow copy of the current properties with the same
// per-value policy as Get (ref unwrap, lazy nested wrap). Tracks the
// iteration key and every copied key.
func (o *Object) Snapshot() map[string]any {
	o.g.track(o.id, iterationKey)
	out := make(map[string]any, len(o.raw))
	for k := range o.raw {
		out[k] = o.Get(k)
	}
	return out
}
