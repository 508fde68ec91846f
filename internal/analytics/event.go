package analytics

import "time"

// Topics for analytics events.
const (
	TopicLeaderboardQueried = "leaderboard.queried"
	TopicRateLimited        = "ratelimit.exceeded"
)

// LeaderboardQueriedEvent is emitted after a batch leaderboard query is
// resolved, successfully or partially.
type LeaderboardQueriedEvent struct {
	Scopes       []string  `json:"scopes"`
	SortBy       string    `json:"sortBy"`
	Order        string    `json:"order"`
	Limit        int       `json:"limit"`
	Month        int       `json:"month,omitempty"`
	Year         int       `json:"year,omitempty"`
	CacheHits    int       `json:"cacheHits"`
	CacheMisses  int       `json:"cacheMisses"`
	FailedScopes []string  `json:"failedScopes,omitempty"`
	ClientIP     string    `json:"clientIp"`
	UserAgent    string    `json:"userAgent"`
	QueriedAt    time.Time `json:"queriedAt"`
}

// RateLimitedEvent is emitted when the admission layer denies a request.
type RateLimitedEvent struct {
	Bucket   string    `json:"bucket"`
	ClientIP string    `json:"clientIp"`
	Limit    int64     `json:"limit"`
	DeniedAt time.Time `json:"deniedAt"`
}
