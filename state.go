package waitcounter

import "sync/atomic"

const cacheLineSize = 64

// counterState is the shared aggregate for one named counter. Every handle
// constructed with the same name points at the same instance for the
// remaining process lifetime. Fields are mutated only through atomics; the
// padding keeps the hot fields on separate cache lines.
type counterState struct {
	name string

	active atomic.Int64
	_      [cacheLineSize - 8]byte
	count  atomic.Uint64
	_      [cacheLineSize - 8]byte
	nanos  atomic.Int64
}

func newCounterState(name string) *counterState {
	return &counterState{name: name}
}

func (s *counterState) openSpan() {
	s.active.Add(1)
}

// closeSpan folds one completed span into the aggregates. elapsed must be
// non-negative; the caller clamps.
func (s *counterState) closeSpan(elapsedNanos int64) {
	s.active.Add(-1)
	s.count.Add(1)
	s.nanos.Add(elapsedNanos)
}

func (s *counterState) snapshot() CounterSnapshot {
	return CounterSnapshot{
		Active:        s.active.Load(),
		Count:         s.count.Load(),
		DurationNanos: s.nanos.Load(),
	}
}

// CounterSnapshot is a point-in-time copy of one counter's aggregates. Each
// field is loaded atomically; the fields together may race with concurrent
// Stop calls, which is acceptable for export reads.
type CounterSnapshot struct {
	Active        int64
	Count         uint64
	DurationNanos int64
}
