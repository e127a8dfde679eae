package waitcounter

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// SpanEvent describes one completed wait span.
type SpanEvent struct {
	Counter string        `json:"counter"`
	Start   time.Time     `json:"start"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Backend receives completed spans from the registry's dispatcher. Observe
// runs on the dispatcher goroutine; slow backends delay other backends but
// never the Stop hot path.
type Backend interface {
	Observe(ctx context.Context, event SpanEvent)
}

type NoOpBackend struct{}

func (NoOpBackend) Observe(context.Context, SpanEvent) {}

// ChannelBackend forwards events to a channel, mainly for tests and ad-hoc
// consumers.
type ChannelBackend struct {
	events chan SpanEvent
}

func NewChannelBackend(buffer int) *ChannelBackend {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelBackend{
		events: make(chan SpanEvent, buffer),
	}
}

func (b *ChannelBackend) Observe(ctx context.Context, event SpanEvent) {
	select {
	case b.events <- event:
	case <-ctx.Done():
	}
}

func (b *ChannelBackend) Events() <-chan SpanEvent {
	return b.events
}

// JSONWriterBackend writes one JSON object per completed span to a writer.
type JSONWriterBackend struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterBackend(w io.Writer) *JSONWriterBackend {
	return &JSONWriterBackend{
		writer: w,
	}
}

func (b *JSONWriterBackend) Observe(ctx context.Context, event SpanEvent) {
	if b == nil || b.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	_, _ = b.writer.Write(data)
	_, _ = b.writer.Write([]byte("\n"))
}
