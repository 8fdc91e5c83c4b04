package reactive

import "time"

// TrackEvent reports that a running effect recorded a dependency.
type TrackEvent struct {
	// Target is the identity of the tracked target.
	Target uintptr `json:"target"`

	// Key is the formatted property key ("<iterate>" for the iteration key).
	Key string `json:"key"`

	// EffectID identifies the effect that recorded the dependency.
	EffectID uint64 `json:"effect"`
}

// TriggerEvent reports a mutation notification.
type TriggerEvent struct {
	Target uintptr     `json:"target"`
	Key    string      `json:"key"`
	Kind   TriggerKind `json:"-"`

	// Effects is the number of distinct effects the trigger reached.
	Effects int `json:"effects"`
}

// EffectRunEvent reports one completed (or panicked) effect run.
type EffectRunEvent struct {
	EffectID uint64        `json:"effect"`
	Duration time.Duration `json:"duration"`
}

// Observer receives engine events for instrumentation and inspection.
// Observers run synchronously on the mutating goroutine: they must be fast
// and must not mutate reactive state.
type Observer interface {
	Tracked(ev TrackEvent)
	Triggered(ev TriggerEvent)
	EffectRan(ev EffectRunEvent)
}

// multiObserver fans events out to several observers.
type multiObserver []Observer

func (m multiObserver) Tracked(ev TrackEvent) {
	for _, o := range m {
		o.Tracked(ev)
	}
}

func (m multiObserver) Triggered(ev TriggerEvent) {
	for _, o := range m {
		o.Triggered(ev)
	}
}

func (m multiObserver) EffectRan(ev EffectRunEvent) {
	for _, o := range m {
		o.EffectRan(ev)
	}
}

// CombineObservers returns an observer that forwards every event to each of
// obs in order. Nil entries are skipped.
func CombineObservers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}
