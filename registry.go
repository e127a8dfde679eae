package waitcounter

import "sync"

// Registry maps counter names to shared aggregate state. States are created
// lazily on first resolve and never removed. All methods are safe for
// concurrent use.
type Registry struct {
	cfg        Config
	states     sync.Map // map[string]*counterState
	inits      sync.Map // map[string]*sync.Mutex
	dispatcher *dispatcher
}

// NewRegistry returns a registry with default configuration and no backends.
// Use [Builder] to attach backends or override the misuse policy.
func NewRegistry() *Registry {
	return &Registry{cfg: defaultConfig()}
}

// resolve returns the shared state for name, creating it exactly once under
// a per-name init mutex. Fast path is a single lock-free map load.
func (r *Registry) resolve(name string) *counterState {
	if v, ok := r.states.Load(name); ok {
		return v.(*counterState)
	}

	mu, _ := r.inits.LoadOrStore(name, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	defer m.Unlock()

	// re-check after acquiring the per-name mutex
	if v, ok := r.states.Load(name); ok {
		return v.(*counterState)
	}

	st := newCounterState(name)
	r.states.Store(name, st)
	return st
}

// Counter returns a handle bound to the named counter. Handles are cheap to
// create and discard; all handles for the same name share one aggregate.
// A single handle must not be used from multiple goroutines at once.
//
// Counter panics on an empty name: the name identifies a process-wide
// aggregate and an unnamed one is always a programming error.
func (r *Registry) Counter(name string) *Handle {
	if name == "" {
		panic("waitcounter: empty counter name")
	}
	return &Handle{state: r.resolve(name), registry: r}
}

// Snapshot returns a point-in-time copy of every counter's aggregates.
func (r *Registry) Snapshot() map[string]CounterSnapshot {
	out := make(map[string]CounterSnapshot)
	r.states.Range(func(k, v any) bool {
		out[k.(string)] = v.(*counterState).snapshot()
		return true
	})
	return out
}

// CounterSnapshot returns the aggregates for one counter. The second return
// value is false if the name has never been resolved.
func (r *Registry) CounterSnapshot(name string) (CounterSnapshot, bool) {
	v, ok := r.states.Load(name)
	if !ok {
		return CounterSnapshot{}, false
	}
	return v.(*counterState).snapshot(), true
}

// Dropped reports how many span events were shed by backend dispatch due to
// backpressure. Always zero when no backends are registered.
func (r *Registry) Dropped() uint64 {
	return r.dispatcher.Dropped()
}

// Close stops backend dispatch, draining buffered events first. Counter
// aggregates remain readable; further completed spans are no longer
// forwarded to backends. Close is idempotent.
func (r *Registry) Close() {
	r.dispatcher.Close()
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Counter returns a handle on the process-wide default registry.
func Counter(name string) *Handle {
	return Default().Counter(name)
}
