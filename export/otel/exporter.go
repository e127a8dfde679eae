package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	waitcounter "github.com/MrEthical07/waitcounter"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil snapshot source")
)

type snapshotSource interface {
	Snapshot() map[string]waitcounter.CounterSnapshot
	Dropped() uint64
}

// Exporter bridges a wait counter registry into an OpenTelemetry meter.
// Counter names are not known up front, so a fixed set of observable
// instruments is registered once and every counter is reported as a
// measurement carrying a "counter" attribute.
type Exporter struct {
	source       snapshotSource
	registration metric.Registration

	waits    metric.Int64ObservableCounter
	duration metric.Float64ObservableCounter
	active   metric.Int64ObservableGauge
	dropped  metric.Int64ObservableCounter
}

// NewExporter registers observable instruments for the given registry on
// meter. Collection pulls a fresh snapshot on every cycle.
func NewExporter(meter metric.Meter, registry *waitcounter.Registry) (*Exporter, error) {
	return NewExporterFromSource(meter, registry)
}

// NewExporterFromSource is NewExporter for a custom snapshot source.
func NewExporterFromSource(meter metric.Meter, source snapshotSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{source: source}

	var err error
	exporter.waits, err = meter.Int64ObservableCounter(
		"waitcounter.waits",
		metric.WithDescription("Completed wait spans."),
		metric.WithUnit("{span}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create waits counter: %w", err)
	}
	exporter.duration, err = meter.Float64ObservableCounter(
		"waitcounter.wait.duration",
		metric.WithDescription("Total time spent waiting."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration counter: %w", err)
	}
	exporter.active, err = meter.Int64ObservableGauge(
		"waitcounter.active",
		metric.WithDescription("Wait spans currently open."),
		metric.WithUnit("{span}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create active gauge: %w", err)
	}
	exporter.dropped, err = meter.Int64ObservableCounter(
		"waitcounter.dropped_events",
		metric.WithDescription("Span events shed by backend dispatch backpressure."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create dropped counter: %w", err)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.Snapshot()
		for name, snap := range snapshot {
			attrs := metric.WithAttributes(attribute.String("counter", name))
			observer.ObserveInt64(exporter.waits, int64(snap.Count), attrs)
			observer.ObserveFloat64(exporter.duration, float64(snap.DurationNanos)/1e9, attrs)
			observer.ObserveInt64(exporter.active, snap.Active, attrs)
		}
		observer.ObserveInt64(exporter.dropped, int64(exporter.source.Dropped()))
		return nil
	}, exporter.waits, exporter.duration, exporter.active, exporter.dropped)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
