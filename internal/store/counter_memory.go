package store

import (
	"context"
	"sync"
	"time"
)

// sweepEvery bounds how often the memory counter scans for lapsed windows.
const sweepEvery = 1024

// CounterMemoryStore is an in-process implementation of ratelimit.CounterStore.
// It is volatile and not correct across multiple service instances.
type CounterMemoryStore struct {
	mu       sync.Mutex
	counters map[string]counterRecord
	ops      int
}

type counterRecord struct {
	count     int64
	expiresAt time.Time
}

// NewCounterMemoryStore creates a new in-memory counter store.
func NewCounterMemoryStore() *CounterMemoryStore {
	return &CounterMemoryStore{
		counters: make(map[string]counterRecord),
	}
}

func (s *CounterMemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	// Reset to 1 with a fresh expiry when the key is new or its window has
	// lapsed; the check and the write happen under one lock, so a record
	// can never persist without an expiry.
	rec, ok := s.counters[key]
	if !ok || now.After(rec.expiresAt) {
		rec = counterRecord{count: 1, expiresAt: now.Add(ttl)}
	} else {
		rec.count++
	}

	s.counters[key] = rec

	s.ops++
	if s.ops%sweepEvery == 0 {
		s.sweep(now)
	}

	return rec.count, nil
}

// sweep drops lapsed records so window-indexed keys do not accumulate
// forever. Caller must hold the lock.
func (s *CounterMemoryStore) sweep(now time.Time) {
	for key, rec := range s.counters {
		if now.After(rec.expiresAt) {
			delete(s.counters, key)
		}
	}
}
