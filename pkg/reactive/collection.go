package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Map is the reactive handle over a keyed collection (map[any]any). Its
// mutators are instrumented methods rather than property writes: each one
// performs the same track-on-read / trigger-on-write contract as Object.
//
// Values read out of a non-shallow map wrap lazily if eligible, in the
// parent's flavor (readonly parents wrap readonly).
type Map struct {
	g   *Graph
	raw map[any]any
	id  uintptr
	m   wrapMode
}

// Raw returns the underlying map.
func (c *Map) Raw() any { return c.raw }

func (c *Map) graphOf() *Graph   { return c.g }
func (c *Map) mode() wrapMode    { return c.m }
func (c *Map) identity() uintptr { return c.id }

func (c *Map) wrapValue(v any) any {
	if c.m.shallow() {
		return v
	}
	return c.g.wrapNested(v, c.m.readonly())
}

// Get reads the value for key, tracking (target, key).
func (c *Map) Get(key any) (any, bool) {
	c.g.track(c.id, key)
	v, ok := c.raw[key]
	if !ok {
		return nil, false
	}
	return c.wrapValue(v), true
}

// Set writes a key. Additions notify iteration-key subscribers; value
// changes on existing keys notify only that key's subscribers.
func (c *Map) Set(key, value any) {
	if c.m.readonly() {
		warnf("Set on readonly map ignored")
		return
	}
	old, had := c.raw[key]
	c.raw[key] = value
	if !had {
		c.g.trigger(c.id, key, TriggerAdd)
	} else if !sameValue(old, value) {
		c.g.trigger(c.id, key, TriggerSet)
	}
}

// Has reports membership of key, tracking (target, key): deleting that key
// re-runs the checker, as does clearing the map.
func (c *Map) Has(key any) bool {
	c.g.track(c.id, key)
	_, ok := c.raw[key]
	return ok
}

// Delete removes a key, reporting whether it existed.
func (c *Map) Delete(key any) bool {
	if c.m.readonly() {
		warnf("Delete on readonly map ignored")
		return false
	}
	if _, had := c.raw[key]; !had {
		return false
	}
	delete(c.raw, key)
	c.g.trigger(c.id, key, TriggerDelete)
	return true
}

// Clear removes every key, notifying all subscribers of the target.
func (c *Map) Clear() {
	if c.m.readonly() {
		warnf("Clear on readonly map ignored")
		return
	}
	if len(c.raw) == 0 {
		return
	}
	for k := range c.raw {
		delete(c.raw, k)
	}
	c.g.trigger(c.id, iterationKey, TriggerClear)
}

// Len returns the number of entries, tracking the iteration key.
func (c *Map) Len() int {
	c.g.track(c.id, iterationKey)
	return len(c.raw)
}

// Keys returns the keys, tracking the iteration key.
func (c *Map) Keys() []any {
	c.g.track(c.id, iterationKey)
	keys := make([]any, 0, len(c.raw))
	for k := range c.raw {
		keys = append(keys, k)
	}
	return keys
}

// Values returns the values (wrapped per Get policy), tracking the
// iteration key.
func (c *Map) Values() []any {
	c.g.track(c.id, iterationKey)
	values := make([]any, 0, len(c.raw))
	for _, v := range c.raw {
		values = append(values, c.wrapValue(v))
	}
	return values
}

// ForEach visits every entry (values wrapped per Get policy), tracking the
// iteration key.
func (c *Map) ForEach(fn func(key, value any)) {
	c.g.track(c.id, iterationKey)
	for k, v := range c.raw {
		fn(k, c.wrapValue(v))
	}
}

// Set is the reactive handle over a set collection (mapset.Set[any]).
// Membership reads track the element; Add and Remove are the structural
// add/delete of the trigger contract.
type Set struct {
	g   *Graph
	raw mapset.Set[any]
	id  uintptr
	m   wrapMode
}

// Raw returns the underlying set.
func (s *Set) Raw() any { return s.raw }

func (s *Set) graphOf() *Graph   { return s.g }
func (s *Set) mode() wrapMode    { return s.m }
func (s *Set) identity() uintptr { return s.id }

// Add inserts v, reporting whether the set changed.
func (s *Set) Add(v any) bool {
	if s.m.readonly() {
		warnf("Add on readonly set ignored")
		return false
	}
	if s.raw.Contains(v) {
		return false
	}
	s.raw.Add(v)
	s.g.trigger(s.id, v, TriggerAdd)
	return true
}

// Remove deletes v, reporting whether it was present.
func (s *Set) Remove(v any) bool {
	if s.m.readonly() {
		warnf("Remove on readonly set ignored")
		return false
	}
	if !s.raw.Contains(v) {
		return false
	}
	s.raw.Remove(v)
	s.g.trigger(s.id, v, TriggerDelete)
	return true
}

// Contains reports membership of v, tracking (target, v).
func (s *Set) Contains(v any) bool {
	s.g.track(s.id, v)
	return s.raw.Contains(v)
}

// Len returns the cardinality, tracking the iteration key.
func (s *Set) Len() int {
	s.g.track(s.id, iterationKey)
	return s.raw.Cardinality()
}

// Each visits every element until fn returns true, tracking the iteration
// key.
func (s *Set) Each(fn func(any) bool) {
	s.g.track(s.id, iterationKey)
	s.raw.Each(fn)
}

// Values returns the elements, tracking the iteration key.
func (s *Set) Values() []any {
	s.g.track(s.id, iterationKey)
	return s.raw.ToSlice()
}

// Clear removes every element, notifying all subscribers of the target.
func (s *Set) Clear() {
	if s.m.readonly() {
		warnf("Clear on readonly set ignored")
		return
	}
	if s.raw.Cardinality() == 0 {
		return
	}
	s.raw.Clear()
	s.g.trigger(s.id, iterationKey, TriggerClear)
}
