// Package replicalag implements the replica lag registry: each replica
// publishes the sequence number of the last delta it applied to Redis, so
// operators can see replication lag across the fleet from the admin HTTP
// surface without querying every node directly. This is ops tooling
// layered on top of the engine, not a cache the resolver consults --
// check(user, path) never touches Redis, keeping the in-memory manager
// (pkg/rustperms/manager) the only source of truth for permission answers.
package replicalag

import (
	"context"
	"strconv"
	"time"

	"github.com/rustperms/rustperms/pkg/mredis"
)

// keyPrefix namespaces every key this package writes.
const keyPrefix = "rustperms:replica:"

// ttl bounds how long a stale replica's last-seen sequence lingers in
// Redis after the replica stops publishing (e.g. it crashed).
const ttl = 5 * time.Minute

// Registry publishes and reads replica sequence numbers.
type Registry struct {
	conn *mredis.RedisConnection
}

// New returns a Registry backed by conn.
func New(conn *mredis.RedisConnection) *Registry {
	return &Registry{conn: conn}
}

func key(replicaID string) string {
	return keyPrefix + replicaID + ":sequence"
}

// SetSequence records replicaID's last-applied delta sequence number.
// Failures are swallowed: lag reporting must never block the apply path it
// observes.
func (r *Registry) SetSequence(ctx context.Context, replicaID string, seq uint64) {
	if r == nil {
		return
	}

	client, err := r.conn.GetClient(ctx)
	if err != nil {
		return
	}

	client.Set(ctx, key(replicaID), strconv.FormatUint(seq, 10), ttl)
}

// GetSequence returns replicaID's last-published sequence number, or ok=false
// if it has none recorded (never published, or its TTL expired).
func (r *Registry) GetSequence(ctx context.Context, replicaID string) (seq uint64, ok bool) {
	if r == nil {
		return 0, false
	}

	client, err := r.conn.GetClient(ctx)
	if err != nil {
		return 0, false
	}

	s, err := client.Get(ctx, key(replicaID)).Result()
	if err != nil {
		return 0, false
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
