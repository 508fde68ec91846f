package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when a limiter is constructed with a
// non-positive window.
var ErrInvalidWindow = errors.New("rate limit window must be positive")

// Config defines one fixed-window limit.
type Config struct {
	Window time.Duration
	Max    int64
}

// Policy maps buckets to their limits. Buckets without an entry fall back
// to BucketDefault; if that is also absent, requests for the bucket are
// not limited.
type Policy map[Bucket]Config

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed bool
	// Unlimited reports that no policy applied to the bucket. Limit,
	// Remaining, and Reset carry no meaning and no counter was charged.
	Unlimited bool
	// Limit is the configured maximum for the bucket's window.
	Limit int64
	// Remaining is how many requests are left in the current window.
	Remaining int64
	// Reset is the time until the current window boundary. It is derived
	// from the window index, not from the store's TTL bookkeeping.
	Reset time.Duration
}

// FixedWindowLimiter counts requests in aligned, non-overlapping time
// windows. Counts are kept in a CounterStore under keys composed of
// bucket, identity, and window index, so unrelated buckets and callers
// never share a counter.
type FixedWindowLimiter struct {
	store  CounterStore
	policy Policy
}

// NewFixedWindowLimiter creates a fixed-window limiter. Every policy entry
// must have a positive window; a zero window would make the window index
// undefined, so construction fails instead.
func NewFixedWindowLimiter(store CounterStore, policy Policy) (*FixedWindowLimiter, error) {
	for bucket, cfg := range policy {
		if cfg.Window <= 0 {
			return nil, fmt.Errorf("bucket %q: %w", bucket, ErrInvalidWindow)
		}

		if cfg.Max < 0 {
			return nil, fmt.Errorf("bucket %q: max must not be negative", bucket)
		}
	}

	return &FixedWindowLimiter{store: store, policy: policy}, nil
}

// Check records one request from identity against bucket and decides
// whether it is allowed. A Max of 0 denies every request in the window.
func (l *FixedWindowLimiter) Check(ctx context.Context, bucket Bucket, identity string) (Decision, error) {
	cfg, ok := l.policy[bucket]
	if !ok {
		cfg, ok = l.policy[BucketDefault]
	}

	if !ok {
		return Decision{Allowed: true, Unlimited: true}, nil
	}

	now := time.Now()
	windowIndex := now.UnixMilli() / cfg.Window.Milliseconds()
	key := fmt.Sprintf("rl:%s:%s:%d", bucket, identity, windowIndex)

	count, err := l.store.Incr(ctx, key, cfg.Window)
	if err != nil {
		return Decision{}, err
	}

	windowEnd := time.UnixMilli((windowIndex + 1) * cfg.Window.Milliseconds())

	remaining := cfg.Max - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= cfg.Max,
		Limit:     cfg.Max,
		Remaining: remaining,
		Reset:     windowEnd.Sub(now),
	}, nil
}
