// Package waitcounter provides process-wide, concurrency-safe wait-time
// instrumentation. Named counters accumulate the number and total duration of
// completed wait spans together with the number of spans currently in flight.
// Callers hold lightweight handles and bracket each waiting interval with
// [Handle.Start] and [Handle.Stop].
//
// # Architecture boundaries
//
// waitcounter is the public surface. It exposes [Registry], [Builder],
// [Handle], [Config], and value types (CounterSnapshot, SpanEvent). Export
// plumbing lives under export/ and only reads aggregates through snapshot
// accessors; it never mutates counter state.
//
// # What this package must NOT do
//
//   - Block inside Start or Stop. Both are synchronous bookkeeping calls;
//     backend dispatch is asynchronous and sheds load rather than stall.
//   - Remove counters. A resolved counter lives for the remaining process
//     lifetime and growth is bounded by the number of distinct names.
//   - Touch wall-clock arithmetic. Elapsed time comes from the monotonic
//     reading carried by time.Time.
//
// # Performance contract
//
// Stop is the hot path. Aggregate updates are plain atomic operations on
// cache-line padded fields and must not allocate. Resolving a name allocates
// only on first use; subsequent lookups are a single sync.Map load.
package waitcounter
