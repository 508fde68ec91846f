package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/varesk/statsgate/internal/ratelimit"
	"go.uber.org/zap"
)

// CounterFallbackStore wraps a shared counter store and degrades to an
// in-process counter when the shared backend errors or times out.
//
// The degradation is sticky: after the first failure, every later
// increment goes to the local counter for the remainder of the process
// lifetime. Alternating between backends per call would produce
// non-deterministic limiting, so the switch is one-way.
type CounterFallbackStore struct {
	shared   ratelimit.CounterStore
	local    *CounterMemoryStore
	logger   *zap.Logger
	degraded atomic.Bool
}

// NewCounterFallbackStore creates a fallback store around shared.
func NewCounterFallbackStore(shared ratelimit.CounterStore, logger *zap.Logger) *CounterFallbackStore {
	return &CounterFallbackStore{
		shared: shared,
		local:  NewCounterMemoryStore(),
		logger: logger,
	}
}

func (s *CounterFallbackStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.degraded.Load() {
		return s.local.Incr(ctx, key, ttl)
	}

	count, err := s.shared.Incr(ctx, key, ttl)
	if err == nil {
		return count, nil
	}

	if s.degraded.CompareAndSwap(false, true) {
		s.logger.Warn("shared counter backend unreachable, degrading to local counters",
			zap.Error(err),
		)
	}

	return s.local.Incr(ctx, key, ttl)
}

// Degraded reports whether the store has switched to local counters.
func (s *CounterFallbackStore) Degraded() bool {
	return s.degraded.Load()
}
