// Package prometheus renders wait counter aggregates in Prometheus text
// exposition format.
//
// [NewExporter] accepts a [waitcounter.Registry] and exposes an [http.Handler]
// serving three metric families — waitcounter_waits_total,
// waitcounter_wait_seconds_total, and waitcounter_active — with one series per
// counter name, plus waitcounter_dropped_events_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate registry state.
package prometheus
