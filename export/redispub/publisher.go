package redispub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	waitcounter "github.com/MrEthical07/waitcounter"
)

type snapshotSource interface {
	Snapshot() map[string]waitcounter.CounterSnapshot
	Dropped() uint64
}

const defaultPrefix = "waitcounter"

// Publisher writes wait counter aggregates into a Redis hash. Each process
// owns one hash keyed by prefix and a random instance ID, so multiple
// processes can publish to the same Redis without clobbering each other;
// readers aggregate across instances themselves.
type Publisher struct {
	client   *redis.Client
	source   snapshotSource
	key      string
	instance string
	ttl      time.Duration
}

// NewPublisher creates a publisher for the given registry. prefix defaults
// to "waitcounter" when empty; ttl <= 0 disables key expiry. A fresh
// instance ID is generated per publisher.
func NewPublisher(client *redis.Client, registry *waitcounter.Registry, prefix string, ttl time.Duration) *Publisher {
	return NewPublisherFromSource(client, registry, prefix, ttl)
}

// NewPublisherFromSource is NewPublisher for a custom snapshot source.
func NewPublisherFromSource(client *redis.Client, source snapshotSource, prefix string, ttl time.Duration) *Publisher {
	if prefix == "" {
		prefix = defaultPrefix
	}
	instance := uuid.NewString()

	return &Publisher{
		client:   client,
		source:   source,
		key:      prefix + ":" + instance,
		instance: instance,
		ttl:      ttl,
	}
}

// InstanceID returns the random per-process identifier embedded in the key.
func (p *Publisher) InstanceID() string {
	return p.instance
}

// Key returns the Redis hash key this publisher writes to.
func (p *Publisher) Key() string {
	return p.key
}

// Publish writes the current aggregates. Fields are <name>:count,
// <name>:duration_ns, and <name>:active per counter, plus a dropped field.
// Values for counters that completed more spans since the last publish are
// overwritten in place; the hash always reflects the latest snapshot.
func (p *Publisher) Publish(ctx context.Context) error {
	snapshot := p.source.Snapshot()

	fields := make(map[string]interface{}, len(snapshot)*3+1)
	for name, snap := range snapshot {
		fields[name+":count"] = strconv.FormatUint(snap.Count, 10)
		fields[name+":duration_ns"] = strconv.FormatInt(snap.DurationNanos, 10)
		fields[name+":active"] = strconv.FormatInt(snap.Active, 10)
	}
	fields["dropped"] = strconv.FormatUint(p.source.Dropped(), 10)

	pipe := p.client.TxPipeline()
	pipe.HSet(ctx, p.key, fields)
	if p.ttl > 0 {
		pipe.Expire(ctx, p.key, p.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// Run publishes on a fixed interval until ctx is done, then returns
// ctx.Err(). Transient publish errors are swallowed so a Redis outage does
// not stop the loop; the next tick retries.
func (p *Publisher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = p.Publish(ctx)
		}
	}
}
