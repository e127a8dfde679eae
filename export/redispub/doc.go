// Package redispub publishes wait counter snapshots to Redis.
//
// [NewPublisher] writes the registry's aggregates into one hash per process
// instance (prefix:<uuid>), either on demand via [Publisher.Publish] or on an
// interval via [Publisher.Run]. It is a snapshot sink, not an aggregator:
// each process overwrites only its own hash and cross-process rollups are the
// reader's concern.
//
// # What this package must NOT do
//
//   - Own the Redis client lifecycle — callers supply and close the client.
//   - Aggregate across processes or read other instances' hashes.
//   - Mutate registry state.
package redispub
