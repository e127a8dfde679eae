package waitcounter

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestDispatcherDeliversCompletedSpans(t *testing.T) {
	backend := NewChannelBackend(8)
	r, err := New().WithBackend(backend).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer r.Close()

	h := r.Counter("io_wait")
	base := time.Now()
	h.Start(base)
	h.Stop(base.Add(5 * time.Millisecond))

	select {
	case event := <-backend.Events():
		if event.Counter != "io_wait" {
			t.Fatalf("expected counter io_wait, got %q", event.Counter)
		}
		if event.Elapsed != 5*time.Millisecond {
			t.Fatalf("expected elapsed 5ms, got %v", event.Elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for span event")
	}
}

func TestDispatcherStartEmitsNothing(t *testing.T) {
	backend := NewChannelBackend(8)
	r, err := New().WithBackend(backend).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer r.Close()

	h := r.Counter("io_wait")
	h.Start(time.Now())

	select {
	case event := <-backend.Events():
		t.Fatalf("unexpected event on start: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
	h.Stop(time.Now())
}

type gatedBackend struct {
	entered chan struct{}
	release chan struct{}
}

func (b *gatedBackend) Observe(_ context.Context, _ SpanEvent) {
	b.entered <- struct{}{}
	<-b.release
}

func TestDispatcherDropsWhenBufferFull(t *testing.T) {
	backend := &gatedBackend{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
	r, err := New().
		WithBackend(backend).
		WithDispatch(DispatchConfig{Enabled: true, BufferSize: 1, DropIfFull: true}).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	h := r.Counter("busy")
	base := time.Now()

	// first span occupies the delivery goroutine
	h.Start(base)
	h.Stop(base.Add(time.Millisecond))
	<-backend.entered

	// second span fills the buffer, third has nowhere to go
	h.Start(base)
	h.Stop(base.Add(time.Millisecond))
	h.Start(base)
	h.Stop(base.Add(time.Millisecond))

	if got := r.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}

	// aggregates are unaffected by backend backpressure
	snap, _ := r.CounterSnapshot("busy")
	if snap.Count != 3 {
		t.Fatalf("expected count 3, got %d", snap.Count)
	}

	close(backend.release)
	r.Close()
}

func TestDispatcherCloseDrainsBuffer(t *testing.T) {
	backend := NewChannelBackend(16)
	r, err := New().WithBackend(backend).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	h := r.Counter("drain")
	base := time.Now()
	const spans = 5
	for i := 0; i < spans; i++ {
		h.Start(base)
		h.Stop(base.Add(time.Millisecond))
	}

	r.Close()

	received := 0
	for received < spans {
		select {
		case <-backend.Events():
			received++
		case <-time.After(time.Second):
			t.Fatalf("expected %d events after close, got %d", spans, received)
		}
	}
}

func TestDispatchDisabledSkipsBackends(t *testing.T) {
	backend := NewChannelBackend(8)
	r, err := New().
		WithBackend(backend).
		WithDispatch(DispatchConfig{Enabled: false}).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer r.Close()

	h := r.Counter("silent")
	base := time.Now()
	h.Start(base)
	h.Stop(base.Add(time.Millisecond))

	select {
	case event := <-backend.Events():
		t.Fatalf("unexpected event with dispatch disabled: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
	if got := r.Dropped(); got != 0 {
		t.Fatalf("expected 0 dropped, got %d", got)
	}
}

func TestJSONWriterBackendOutput(t *testing.T) {
	var buf bytes.Buffer
	backend := NewJSONWriterBackend(&buf)

	start := time.Now()
	backend.Observe(context.Background(), SpanEvent{
		Counter: "io_wait",
		Start:   start,
		Elapsed: 3 * time.Millisecond,
	})

	var decoded struct {
		Counter string `json:"counter"`
		Elapsed int64  `json:"elapsed_ns"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Counter != "io_wait" {
		t.Fatalf("expected counter io_wait, got %q", decoded.Counter)
	}
	if decoded.Elapsed != int64(3*time.Millisecond) {
		t.Fatalf("expected elapsed 3ms in nanos, got %d", decoded.Elapsed)
	}
}

func TestMultipleBackendsAllObserve(t *testing.T) {
	first := NewChannelBackend(4)
	second := NewChannelBackend(4)
	r, err := New().WithBackend(first).WithBackend(second).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	h := r.Counter("fanout")
	base := time.Now()
	h.Start(base)
	h.Stop(base.Add(time.Millisecond))
	r.Close()

	for i, backend := range []*ChannelBackend{first, second} {
		select {
		case event := <-backend.Events():
			if event.Counter != "fanout" {
				t.Fatalf("backend %d: expected counter fanout, got %q", i, event.Counter)
			}
		case <-time.After(time.Second):
			t.Fatalf("backend %d: timed out", i)
		}
	}
}
