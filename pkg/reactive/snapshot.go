package reactive

import "sort"

// KeySnapshot is one dependency set in a snapshot: a property key and the
// IDs of the effects subscribed to it.
type KeySnapshot struct {
	Key       string   `json:"key"`
	EffectIDs []uint64 `json:"effects"`
}

// TargetSnapshot is the dependency state of one tracked target.
type TargetSnapshot struct {
	ID   uintptr       `json:"id"`
	Keys []KeySnapshot `json:"keys"`
}

// GraphSnapshot is a point-in-time copy of the dependency store, suitable
// for serialization. It never aliases live bookkeeping.
type GraphSnapshot struct {
	Targets []TargetSnapshot `json:"targets"`
}

// GraphStats summarizes the dependency store.
type GraphStats struct {
	Targets       int `json:"targets"`
	Keys          int `json:"keys"`
	Subscriptions int `json:"subscriptions"`
}

// Snapshot copies the current dependency store: every tracked target, its
// keys, and the subscribed effect IDs, sorted for deterministic output.
func (g *Graph) Snapshot() GraphSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := GraphSnapshot{Targets: make([]TargetSnapshot, 0, len(g.store))}
	for id, keys := range g.store {
		ts := TargetSnapshot{ID: id, Keys: make([]KeySnapshot, 0, len(keys))}
		for key, d := range keys {
			ks := KeySnapshot{Key: formatKey(key), EffectIDs: make([]uint64, 0, len(d.subs))}
			for _, e := range d.subs {
				ks.EffectIDs = append(ks.EffectIDs, e.ID())
			}
			ts.Keys = append(ts.Keys, ks)
		}
		sort.Slice(ts.Keys, func(i, j int) bool { return ts.Keys[i].Key < ts.Keys[j].Key })
		snap.Targets = append(snap.Targets, ts)
	}
	sort.Slice(snap.Targets, func(i, j int) bool { return snap.Targets[i].ID < snap.Targets[j].ID })
	return snap
}

// Stats counts the dependency store's targets, keys and subscriptions.
func (g *Graph) Stats() GraphStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := GraphStats{Targets: len(g.store)}
	for _, keys := range g.store {
		st.Keys += len(keys)
		for _, d := range keys {
			st.Subscriptions += len(d.subs)
		}
	}
	return st
}
