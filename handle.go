package waitcounter

import "time"

// Handle marks the boundaries of wait spans on one named counter. A handle
// carries at most one open span; reuse it for as many Start/Stop pairs as
// needed. Handles are not safe for concurrent use — give each goroutine its
// own handle, they all feed the same shared aggregate.
type Handle struct {
	state    *counterState
	registry *Registry

	open      bool
	startedAt time.Time
}

// Name returns the counter name this handle is bound to.
func (h *Handle) Name() string {
	return h.state.name
}

// Start opens a wait span at now and increments the counter's active count.
// now should come from time.Now so the monotonic clock reading is carried
// into the elapsed computation. Calling Start on an already-open handle is a
// usage error handled per the registry's misuse policy; the open span is
// left untouched.
func (h *Handle) Start(now time.Time) {
	if h.open {
		h.misuse("Start on open handle")
		return
	}
	h.open = true
	h.startedAt = now
	h.state.openSpan()
}

// Stop closes the open span at now: decrements the active count, increments
// the completed-span count by one, and adds the elapsed time to the duration
// accumulator. Negative elapsed (a caller passing timestamps out of order)
// is clamped to zero. Calling Stop on a closed handle is a usage error
// handled per the registry's misuse policy and leaves all aggregates
// untouched.
func (h *Handle) Stop(now time.Time) {
	if !h.open {
		h.misuse("Stop on closed handle")
		return
	}
	h.open = false

	elapsed := now.Sub(h.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	h.state.closeSpan(int64(elapsed))

	if d := h.registry.dispatcher; d != nil {
		d.emit(SpanEvent{
			Counter: h.state.name,
			Start:   h.startedAt,
			Elapsed: elapsed,
		})
	}
}

// Time runs fn inside a Start/Stop pair, covering the common case of
// wrapping a single blocking call.
func (h *Handle) Time(fn func()) {
	h.Start(time.Now())
	defer func() { h.Stop(time.Now()) }()
	fn()
}

func (h *Handle) misuse(msg string) {
	if h.registry.cfg.Misuse == MisusePanic {
		panic("waitcounter: " + msg + " (counter " + h.state.name + ")")
	}
}
