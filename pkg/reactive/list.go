package reactive

// List is the reactive handle over an ordered sequence (*[]any). The target
// is held by pointer so its identity survives growth.
//
// Index reads do NOT auto-unwrap refs, unlike Object property reads; a ref
// stored in a sequence is handed back as the ref itself. Writes at or
// beyond the current length grow the sequence and count as structural
// "add"; truncation via SetLen counts as "delete" for each removed index.
type List struct {
	g   *Graph
	raw *[]any
	id  uintptr
	m   wrapMode
}

// Raw returns the underlying slice pointer.
func (l *List) Raw() any { return l.raw }

func (l *List) graphOf() *Graph   { return l.g }
func (l *List) mode() wrapMode    { return l.m }
func (l *List) identity() uintptr { return l.id }

// Get reads the element at index i, tracking (target, i). Out-of-range
// reads return nil but still track, so a later growth re-runs the reader.
// Eligible nested values wrap lazily unless the handle is shallow.
func (l *List) Get(i int) any {
	l.g.track(l.id, i)
	s := *l.raw
	if i < 0 || i >= len(s) {
		return nil
	}
	v := s[i]
	if l.m.shallow() {
		return v
	}
	return l.g.wrapNested(v, l.m.readonly())
}

// Set writes the element at index i. Writing at or beyond the current
// length grows the sequence with nil gaps and is a structural add;
// writing an existing index is a plain set gated on value change.
func (l *List) Set(i int, value any) {
	if l.m.readonly() {
		warnf("Set(%d) on readonly list ignored", i)
		return
	}
	if i < 0 {
		warnf("Set(%d) on list: negative index ignored", i)
		return
	}
	s := *l.raw
	if i < len(s) {
		old := s[i]
		s[i] = value
		if !sameValue(old, value) {
			l.g.trigger(l.id, i, TriggerSet)
		}
		return
	}
	for len(s) < i {
		s = append(s, nil)
	}
	s = append(s, value)
	*l.raw = s
	l.g.trigger(l.id, i, TriggerAdd)
}

// Append adds values at the end; each appended index is a structural add.
func (l *List) Append(values ...any) {
	if l.m.readonly() {
		warnf("Append on readonly list ignored")
		return
	}
	for _, v := range values {
		i := len(*l.raw)
		*l.raw = append(*l.raw, v)
		l.g.trigger(l.id, i, TriggerAdd)
	}
}

// Len returns the current length, tracking the iteration key so structural
// changes re-run length readers.
func (l *List) Len() int {
	l.g.track(l.id, iterationKey)
	return len(*l.raw)
}

// SetLen resizes the sequence. Truncation removes trailing elements and is
// a structural delete per removed index; growth pads with nil and is a
// structural add per new index.
func (l *List) SetLen(n int) {
	if l.m.readonly() {
		warnf("SetLen on readonly list ignored")
		return
	}
	if n < 0 {
		warnf("SetLen(%d) on list: negative length ignored", n)
		return
	}
	cur := len(*l.raw)
	switch {
	case n < cur:
		*l.raw = (*l.raw)[:n]
		for i := n; i < cur; i++ {
			l.g.trigger(l.id, i, TriggerDelete)
		}
	case n > cur:
		for i := cur; i < n; i++ {
			*l.raw = append(*l.raw, nil)
			l.g.trigger(l.id, i, TriggerAdd)
		}
	}
}

// Values returns a copy of the elements with the same per-value policy as
// Get, tracking the iteration key and every index.
func (l *List) Values() []any {
	l.g.track(l.id, iterationKey)
	s := *l.raw
	out := make([]any, len(s))
	for i := range s {
		out[i] = l.Get(i)
	}
	return out
}
