package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterRedisStore is a Redis-backed implementation of ratelimit.CounterStore,
// shared across service instances.
type CounterRedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

// NewCounterRedisStore creates a new Redis-backed counter store. Every
// round trip is bounded by timeout.
func NewCounterRedisStore(client *redis.Client, timeout time.Duration) *CounterRedisStore {
	return &CounterRedisStore{
		client:  client,
		timeout: timeout,
	}
}

func (s *CounterRedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	// Only the increment that created the key sets its TTL. Re-setting it
	// on every hit would keep the key alive forever under sustained traffic.
	if count == 1 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}

	return count, nil
}
