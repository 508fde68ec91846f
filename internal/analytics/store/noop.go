package store

import (
	"context"

	"github.com/varesk/statsgate/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that only logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveQueried(_ context.Context, event *analytics.LeaderboardQueriedEvent) error {
	n.logger.Info("leaderboard queried event received",
		zap.Strings("scopes", event.Scopes),
		zap.String("sortBy", event.SortBy),
		zap.Int("cacheHits", event.CacheHits),
		zap.Int("cacheMisses", event.CacheMisses),
		zap.Time("queriedAt", event.QueriedAt),
	)

	return nil
}

func (n *Noop) SaveRateLimited(_ context.Context, event *analytics.RateLimitedEvent) error {
	n.logger.Info("rate limited event received",
		zap.String("bucket", event.Bucket),
		zap.String("clientIp", event.ClientIP),
		zap.Time("deniedAt", event.DeniedAt),
	)

	return nil
}
