package reactive

// dep is one dependency set: the effects subscribed to a single
// (target, key) pair. Subscribers are kept in insertion order so that
// triggering runs effects deterministically.
type dep struct {
	key  any
	subs []*Effect
}

// add subscribes an effect, deduplicating by ID.
// Reports whether the effect was newly added.
func (d *dep) add(e *Effect) bool {
	id := e.ID()
	for _, existing := range d.subs {
		if existing.ID() == id {
			return false
		}
	}
	d.subs = append(d.subs, e)
	return true
}

// remove unsubscribes the effect with the given ID, preserving order.
func (d *dep) remove(id uint64) {
	for i, existing := range d.subs {
		if existing.ID() == id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// collect appends subscribers not yet seen and not currently running to
// out, marking them in seen. The currently-running exclusion is what keeps
// an effect from re-triggering itself mid-run: a write performed inside an
// effect body is recorded for future runs, not replayed into this one.
func (d *dep) collect(seen map[uint64]struct{}, out []*Effect) []*Effect {
	for _, e := range d.subs {
		id := e.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		if e.isRunning() {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, e)
	}
	return out
}

func (d *dep) clear() {
	d.subs = nil
}
