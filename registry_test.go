package waitcounter

import (
	"sync"
	"testing"
	"time"
)

func TestResolveReturnsSameState(t *testing.T) {
	r := NewRegistry()
	h1 := r.Counter("queue_wait")
	h2 := r.Counter("queue_wait")

	if h1.state != h2.state {
		t.Fatal("expected handles with the same name to share state")
	}
	if h1 == h2 {
		t.Fatal("expected distinct handle instances")
	}
}

func TestResolveConcurrentFirstUseSingleState(t *testing.T) {
	r := NewRegistry()

	const goroutines = 64
	states := make([]*counterState, goroutines)

	var start sync.WaitGroup
	var wg sync.WaitGroup
	start.Add(1)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			start.Wait()
			states[idx] = r.Counter("contended").state
		}(i)
	}
	start.Done()
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if states[i] != states[0] {
			t.Fatalf("goroutine %d resolved a different state", i)
		}
	}
}

func TestSnapshotCoversAllCounters(t *testing.T) {
	r := NewRegistry()
	base := time.Now()

	a := r.Counter("read_wait")
	a.Start(base)
	a.Stop(base.Add(time.Millisecond))

	b := r.Counter("write_wait")
	b.Start(base)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 counters, got %d", len(snap))
	}
	if snap["read_wait"].Count != 1 {
		t.Fatalf("expected read_wait count 1, got %d", snap["read_wait"].Count)
	}
	if snap["write_wait"].Active != 1 {
		t.Fatalf("expected write_wait active 1, got %d", snap["write_wait"].Active)
	}
	b.Stop(base.Add(time.Millisecond))
}

func TestCounterSnapshotUnknownName(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.CounterSnapshot("never_resolved"); ok {
		t.Fatal("expected ok=false for unknown counter")
	}
}

func TestSnapshotDoesNotCreateCounters(t *testing.T) {
	r := NewRegistry()
	_ = r.Snapshot()
	if _, ok := r.CounterSnapshot("anything"); ok {
		t.Fatal("expected snapshot to not create counters")
	}
}

func TestDefaultRegistryIsProcessWide(t *testing.T) {
	if Default() != Default() {
		t.Fatal("expected Default to return the same registry")
	}

	h := Counter("default_registry_probe")
	base := time.Now()
	h.Start(base)
	h.Stop(base.Add(time.Millisecond))

	snap, ok := Default().CounterSnapshot("default_registry_probe")
	if !ok {
		t.Fatal("expected counter on default registry")
	}
	if snap.Count != 1 {
		t.Fatalf("expected count 1, got %d", snap.Count)
	}
}

func TestRegistryDroppedZeroWithoutBackends(t *testing.T) {
	r := NewRegistry()
	if got := r.Dropped(); got != 0 {
		t.Fatalf("expected 0 dropped, got %d", got)
	}
	// Close on a registry without dispatch is a no-op
	r.Close()
	r.Close()
}
