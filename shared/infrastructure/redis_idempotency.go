package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyGuard records that a side effect was applied for a key.
// Workers consult it before re-applying an effect on redelivery: the log
// guarantees at-least-once, not exactly-once, so the handler between side
// effect and publish acknowledgment must be repeat-safe.
type RedisIdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdempotencyGuard creates a guard whose markers expire after ttl
// (zero means markers never expire)
func NewRedisIdempotencyGuard(client *redis.Client, ttl time.Duration) *RedisIdempotencyGuard {
	return &RedisIdempotencyGuard{client: client, ttl: ttl}
}

// Acquire marks key as applied. It returns true the first time, false when
// the effect was already applied by an earlier delivery.
func (g *RedisIdempotencyGuard) Acquire(ctx context.Context, key string) (bool, error) {
	first, err := g.client.SetNX(ctx, "idempotency:"+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to acquire idempotency marker")
	}
	return first, nil
}

// Void deletes the marker so a later delivery can retry the effect. Workers
// call it when the handler fails after Acquire but before its outcome event
// reached the log.
func (g *RedisIdempotencyGuard) Void(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, "idempotency:"+key).Err(); err != nil {
		return errors.Wrap(err, "failed to void idempotency marker")
	}
	return nil
}
