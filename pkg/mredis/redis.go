// Package mredis is the connection hub for Redis, used by the replica lag
// registry (pkg/rustperms/replicalag).
package mredis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rustperms/rustperms/pkg/mlog"
)

// RedisConnection holds a singleton client for one Redis instance.
type RedisConnection struct {
	ConnectionStringSource string
	Logger                 mlog.Logger

	client *redis.Client
}

// Connect parses the source URL, establishes the client and pings it.
func (rc *RedisConnection) Connect(ctx context.Context) error {
	opts, err := redis.ParseURL(rc.ConnectionStringSource)
	if err != nil {
		return fmt.Errorf("mredis: parse source: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		rc.Logger.Errorf("mredis: ping failed: %v", err)

		return fmt.Errorf("mredis: ping: %w", err)
	}

	rc.client = client

	return nil
}

// GetClient returns the client, connecting first if needed.
func (rc *RedisConnection) GetClient(ctx context.Context) (*redis.Client, error) {
	if rc.client == nil {
		if err := rc.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return rc.client, nil
}
