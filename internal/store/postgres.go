package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/varesk/statsgate/internal/leaderboard"
)

// sortColumns whitelists the sortable fields and maps them to their
// match_stats columns. The column name is interpolated into the query, so
// it must never come from the request directly.
var sortColumns = map[string]string{
	"kills":    "kills",
	"deaths":   "deaths",
	"wins":     "wins",
	"score":    "score",
	"playtime": "playtime_seconds",
}

// PostgresFetcher computes leaderboards with an aggregation query over the
// match_stats table. It is one implementation of leaderboard.Fetcher; the
// admission layer never depends on it directly.
type PostgresFetcher struct {
	pool *pgxpool.Pool
}

// NewPostgresFetcher creates a Postgres-backed leaderboard fetcher.
func NewPostgresFetcher(pool *pgxpool.Pool) *PostgresFetcher {
	return &PostgresFetcher{pool: pool}
}

func (p *PostgresFetcher) Fetch(ctx context.Context, q leaderboard.Query) (*leaderboard.Result, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return nil, fmt.Errorf("unsupported sort field %q", q.SortBy)
	}

	direction := "DESC"
	if q.Order == "asc" {
		direction = "ASC"
	}

	where, args := scopePredicate(q)
	args = append(args, q.Limit)

	query := fmt.Sprintf(`
		SELECT player, COALESCE(SUM(%s), 0)::bigint AS total
		FROM match_stats
		WHERE %s
		GROUP BY player
		ORDER BY total %s, player
		LIMIT $%d
	`, column, where, direction, len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &leaderboard.Result{UpdatedAt: time.Now()}

	rank := 0

	for rows.Next() {
		var entry leaderboard.Entry

		if err := rows.Scan(&entry.Player, &entry.Value); err != nil {
			return nil, err
		}

		rank++
		entry.Rank = rank
		result.Entries = append(result.Entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// scopePredicate builds the time-window predicate for a query. Month/year
// bucketing only applies to the month scope; other scopes use rolling
// windows relative to now.
func scopePredicate(q leaderboard.Query) (string, []any) {
	switch q.Scope {
	case leaderboard.ScopeDay:
		return "played_at >= now() - interval '1 day'", nil
	case leaderboard.ScopeWeek:
		return "played_at >= now() - interval '7 days'", nil
	case leaderboard.ScopeMonth:
		if q.Month != 0 {
			return strings.TrimSpace(`
				played_at >= make_date($1, $2, 1)
				AND played_at < make_date($1, $2, 1) + interval '1 month'
			`), []any{q.Year, q.Month}
		}

		return "played_at >= now() - interval '30 days'", nil
	default: // lifetime
		return "TRUE", nil
	}
}
