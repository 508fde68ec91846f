package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varesk/statsgate/internal/store"
	"go.uber.org/zap"
)

var errBackendDown = errors.New("backend down")

type flakyCounterStore struct {
	calls int
	err   error
}

func (s *flakyCounterStore) Incr(_ context.Context, _ string, _ time.Duration) (int64, error) {
	s.calls++

	if s.err != nil {
		return 0, s.err
	}

	return int64(s.calls), nil
}

func TestCounterFallbackStore(t *testing.T) {
	t.Run("uses shared backend while healthy", func(t *testing.T) {
		shared := &flakyCounterStore{}
		s := store.NewCounterFallbackStore(shared, zap.NewNop())

		count, err := s.Incr(context.Background(), "key1", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.False(t, s.Degraded())
	})

	t.Run("degrades to local counters on failure", func(t *testing.T) {
		shared := &flakyCounterStore{err: errBackendDown}
		s := store.NewCounterFallbackStore(shared, zap.NewNop())

		count, err := s.Incr(context.Background(), "key1", time.Minute)

		require.NoError(t, err, "failure should fall back, not surface")
		assert.Equal(t, int64(1), count)
		assert.True(t, s.Degraded())
	})

	t.Run("degradation is sticky for the process lifetime", func(t *testing.T) {
		shared := &flakyCounterStore{err: errBackendDown}
		s := store.NewCounterFallbackStore(shared, zap.NewNop())

		_, err := s.Incr(context.Background(), "key1", time.Minute)
		require.NoError(t, err)

		// Backend recovers, but the store must not flip back
		shared.err = nil
		callsAfterDegrade := shared.calls

		count, err := s.Incr(context.Background(), "key1", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "local counter should continue the window")
		assert.Equal(t, callsAfterDegrade, shared.calls, "shared backend should not be consulted again")
		assert.True(t, s.Degraded())
	})
}
