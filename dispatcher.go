package waitcounter

import (
	"context"
	"sync"
	"sync/atomic"
)

// dispatcher decouples the Stop hot path from backend delivery. Events are
// buffered on a channel and delivered from a single goroutine; when the
// buffer is full the dispatcher either drops (counting the drop) or blocks,
// per DispatchConfig.
type dispatcher struct {
	cfg       DispatchConfig
	backends  []Backend
	ch        chan SpanEvent
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newDispatcher(cfg DispatchConfig, backends []Backend) *dispatcher {
	if !cfg.Enabled || len(backends) == 0 {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	d := &dispatcher{
		cfg:      cfg,
		backends: backends,
		ch:       make(chan SpanEvent, cfg.BufferSize),
		done:     make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.deliver(event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (d *dispatcher) deliver(event SpanEvent) {
	for _, b := range d.backends {
		b.Observe(context.Background(), event)
	}
}

func (d *dispatcher) emit(event SpanEvent) {
	if d == nil || d.closed.Load() {
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- event:
	case <-d.done:
	}
}

// Close drains buffered events and stops the delivery goroutine.
func (d *dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
