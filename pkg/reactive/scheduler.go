package reactive

import "sync"

// Queue collects triggered effects instead of running them immediately,
// deduplicating by effect ID, and re-runs them all on Flush. It is the
// batching building block a host layer plugs in via WithScheduler; the
// engine itself never defers notifications.
//
//	q := reactive.NewQueue()
//	e := reactive.NewEffect(body, reactive.WithScheduler(q.Schedule))
//	// ... many mutations ...
//	q.Flush() // e runs once
type Queue struct {
	mu      sync.Mutex
	pending []*Effect
	seen    map[uint64]struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{seen: make(map[uint64]struct{})}
}

// Schedule enqueues an effect for the next Flush. Safe to pass directly as
// a scheduler option. Duplicate schedules of the same effect collapse.
func (q *Queue) Schedule(e *Effect) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, dup := q.seen[e.ID()]; dup {
		return
	}
	q.seen[e.ID()] = struct{}{}
	q.pending = append(q.pending, e)
}

// Len returns the number of distinct effects waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs every pending effect once, in scheduling order. Effects
// scheduled while flushing (for example, by a flushed effect's own writes)
// are carried into the same flush until the queue drains.
func (q *Queue) Flush() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		batch := q.pending
		q.pending = nil
		q.seen = make(map[uint64]struct{})
		q.mu.Unlock()

		for _, e := range batch {
			if e.Active() {
				e.Run()
			}
		}
	}
}
