package leaderboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/varesk/statsgate/internal/leaderboard"
)

func TestCacheKey(t *testing.T) {
	base := leaderboard.Query{
		Scope: leaderboard.ScopeDay,
		Params: leaderboard.Params{
			SortBy: "kills",
			Order:  "desc",
			Limit:  100,
		},
	}

	t.Run("is stable for identical queries", func(t *testing.T) {
		assert.Equal(t, leaderboard.CacheKey(base), leaderboard.CacheKey(base))
	})

	t.Run("normalizes unset month and year to a sentinel", func(t *testing.T) {
		key := leaderboard.CacheKey(base)

		assert.Contains(t, key, "month=-")
		assert.Contains(t, key, "year=-")
	})

	t.Run("differs for every parameter that affects the result", func(t *testing.T) {
		variants := map[string]func(*leaderboard.Query){
			"scope":  func(q *leaderboard.Query) { q.Scope = leaderboard.ScopeWeek },
			"sortBy": func(q *leaderboard.Query) { q.SortBy = "wins" },
			"order":  func(q *leaderboard.Query) { q.Order = "asc" },
			"limit":  func(q *leaderboard.Query) { q.Limit = 50 },
			"month":  func(q *leaderboard.Query) { q.Month = 3; q.Year = 2026 },
		}

		baseKey := leaderboard.CacheKey(base)
		seen := map[string]string{"base": baseKey}

		for name, mutate := range variants {
			q := base
			mutate(&q)

			key := leaderboard.CacheKey(q)

			for other, otherKey := range seen {
				assert.NotEqual(t, otherKey, key, "%s should not collide with %s", name, other)
			}

			seen[name] = key
		}
	})

	t.Run("month zero never collides with a real month", func(t *testing.T) {
		withBucket := base
		withBucket.Scope = leaderboard.ScopeMonth
		withBucket.Month = 1
		withBucket.Year = 2026

		withoutBucket := base
		withoutBucket.Scope = leaderboard.ScopeMonth

		assert.NotEqual(t, leaderboard.CacheKey(withBucket), leaderboard.CacheKey(withoutBucket))
	})
}
