// Package otel provides OpenTelemetry metric exporter bindings for wait
// counters.
//
// [NewExporter] registers a fixed set of observable instruments
// (waitcounter.waits, waitcounter.wait.duration, waitcounter.active,
// waitcounter.dropped_events) and reports each named counter as a measurement
// with a "counter" attribute. A single callback reads a registry snapshot on
// each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate registry state.
package otel
