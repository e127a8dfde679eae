package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	waitcounter "github.com/MrEthical07/waitcounter"
	"github.com/MrEthical07/waitcounter/export/redispub"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		counters    = flag.Int("counters", 16, "number of distinct counter names")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "total start/stop pairs across all workers")
		redisAddr   = flag.String("redis-addr", "", "redis address for snapshot publishing; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "loadtest", "snapshot hash key prefix")
	)
	flag.Parse()

	if *counters <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "counters, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		cleanup = func() {}
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	registry := waitcounter.NewRegistry()

	names := make([]string, *counters)
	for i := range names {
		names[i] = fmt.Sprintf("wait_%03d", i)
	}

	fmt.Printf("running %d start/stop pairs over %d counters with %d workers...\n",
		*ops, *counters, *concurrency)

	var completed atomic.Int64
	perWorker := *ops / *concurrency

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(*concurrency)
	for w := 0; w < *concurrency; w++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perWorker; i++ {
				h := registry.Counter(names[rng.Intn(len(names))])
				base := time.Now()
				h.Start(base)
				// synthetic elapsed: 0-1ms without actually sleeping
				h.Stop(base.Add(time.Duration(rng.Intn(1_000_000))))
				completed.Add(1)
			}
		}(int64(w) + 1)
	}
	wg.Wait()
	elapsed := time.Since(start)

	total := completed.Load()
	fmt.Printf("completed %d spans in %v (%.0f spans/sec)\n",
		total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())

	snapshot := registry.Snapshot()
	sorted := make([]string, 0, len(snapshot))
	for name := range snapshot {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var sumCount uint64
	var sumNanos int64
	for _, name := range sorted {
		snap := snapshot[name]
		sumCount += snap.Count
		sumNanos += snap.DurationNanos
		if snap.Active != 0 {
			fmt.Fprintf(os.Stderr, "counter %s still has %d open spans\n", name, snap.Active)
			os.Exit(1)
		}
	}
	fmt.Printf("aggregates: %d counters, %d spans, %.3fs total wait\n",
		len(sorted), sumCount, float64(sumNanos)/1e9)
	if sumCount != uint64(total) {
		fmt.Fprintf(os.Stderr, "lost updates: aggregated %d spans, performed %d\n", sumCount, total)
		os.Exit(1)
	}

	publisher := redispub.NewPublisher(client, registry, *prefix, 0)
	if err := publisher.Publish(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "snapshot publish failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot published to %s\n", publisher.Key())
}
