package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varesk/statsgate/internal/cache"
)

func TestNew(t *testing.T) {
	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := cache.New[string](0)

		assert.ErrorIs(t, err, cache.ErrInvalidCapacity)
	})
}

func TestCache_GetPut(t *testing.T) {
	t.Run("returns stored value", func(t *testing.T) {
		c, err := cache.New[string](4)
		require.NoError(t, err)

		c.Put("a", "value-a", time.Minute)

		got, ok := c.Get("a")

		assert.True(t, ok)
		assert.Equal(t, "value-a", got)
	})

	t.Run("misses unknown key", func(t *testing.T) {
		c, err := cache.New[string](4)
		require.NoError(t, err)

		_, ok := c.Get("missing")

		assert.False(t, ok)
	})

	t.Run("replaces existing value", func(t *testing.T) {
		c, err := cache.New[string](4)
		require.NoError(t, err)

		c.Put("a", "old", time.Minute)
		c.Put("a", "new", time.Minute)

		got, ok := c.Get("a")

		assert.True(t, ok)
		assert.Equal(t, "new", got)
		assert.Equal(t, 1, c.Len())
	})
}

func TestCache_Eviction(t *testing.T) {
	t.Run("evicts exactly the least recently used entry", func(t *testing.T) {
		c, err := cache.New[int](3)
		require.NoError(t, err)

		c.Put("a", 1, time.Minute)
		c.Put("b", 2, time.Minute)
		c.Put("c", 3, time.Minute)

		// Capacity exceeded: "a" is the oldest
		c.Put("d", 4, time.Minute)

		_, ok := c.Get("a")
		assert.False(t, ok, "least recently used entry should be evicted")

		for _, key := range []string{"b", "c", "d"} {
			_, ok := c.Get(key)
			assert.True(t, ok, "entry %q should survive", key)
		}

		assert.Equal(t, 3, c.Len())
	})

	t.Run("a read protects an entry from eviction", func(t *testing.T) {
		c, err := cache.New[int](3)
		require.NoError(t, err)

		c.Put("a", 1, time.Minute)
		c.Put("b", 2, time.Minute)
		c.Put("c", 3, time.Minute)

		// Touch "a" so "b" becomes the oldest
		_, ok := c.Get("a")
		require.True(t, ok)

		c.Put("d", 4, time.Minute)

		_, ok = c.Get("a")
		assert.True(t, ok, "recently read entry should survive")

		_, ok = c.Get("b")
		assert.False(t, ok, "untouched oldest entry should be evicted")
	})

	t.Run("updating an existing key does not evict", func(t *testing.T) {
		c, err := cache.New[int](2)
		require.NoError(t, err)

		c.Put("a", 1, time.Minute)
		c.Put("b", 2, time.Minute)
		c.Put("a", 10, time.Minute)

		_, ok := c.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 2, c.Len())
	})
}

func TestCache_TTL(t *testing.T) {
	t.Run("never returns an expired entry", func(t *testing.T) {
		c, err := cache.New[string](4)
		require.NoError(t, err)

		c.Put("a", "value-a", 30*time.Millisecond)

		got, ok := c.Get("a")
		require.True(t, ok)
		require.Equal(t, "value-a", got)

		time.Sleep(40 * time.Millisecond)

		_, ok = c.Get("a")
		assert.False(t, ok, "expired entry should be a miss")
	})

	t.Run("removes expired entry on read", func(t *testing.T) {
		c, err := cache.New[string](4)
		require.NoError(t, err)

		c.Put("a", "value-a", 30*time.Millisecond)
		time.Sleep(40 * time.Millisecond)

		_, _ = c.Get("a")

		assert.Equal(t, 0, c.Len(), "lazy expiry should remove the entry")
	})

	t.Run("zero ttl means no time expiry", func(t *testing.T) {
		c, err := cache.New[string](4)
		require.NoError(t, err)

		c.Put("a", "value-a", 0)
		time.Sleep(10 * time.Millisecond)

		_, ok := c.Get("a")
		assert.True(t, ok)
	})
}
