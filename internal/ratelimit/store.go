package ratelimit

import (
	"context"
	"time"
)

// CounterStore is an atomic counter with expiry, keyed by opaque strings.
type CounterStore interface {
	// Incr atomically increments key and returns the resulting count.
	// The increment that creates a key attaches ttl to it; later increments
	// must not extend or replace that expiry, so a key lives for at most
	// one ttl from its first increment.
	Incr(ctx context.Context, key string, ttl time.Duration) (count int64, err error)
}
