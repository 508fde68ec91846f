package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/varesk/statsgate/internal/ratelimit"
)

// RegisterRoutes registers the leaderboard routes with their rate limit buckets.
func RegisterRoutes(api huma.API, leaderboardHandler *LeaderboardHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/leaderboard",
		Summary:     "Query leaderboards",
		Description: "Resolves one leaderboard per requested scope, serving cached results where fresh and fetching the rest concurrently. Supports conditional requests via If-None-Match.",
		Tags:        []string{"Leaderboards"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Bucket:   ratelimit.BucketLeaderboard,
				Validate: ValidateQuery,
			},
		},
	}, leaderboardHandler.Get)
}
