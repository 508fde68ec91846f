package ratelimit

import "github.com/danielgtaylor/huma/v2"

// Bucket names an independent rate limit policy. Each endpoint (or group
// of endpoints) is limited under its own bucket so limits never leak
// across unrelated operations.
type Bucket string

const (
	// BucketDefault applies to operations without an explicit bucket.
	BucketDefault Bucket = "default"
	// BucketLeaderboard applies to leaderboard queries, which fan out to
	// an expensive aggregation source.
	BucketLeaderboard Bucket = "leaderboard"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig defines per-endpoint rate limit configuration, attached
// to huma operations via the Metadata field.
type EndpointConfig struct {
	// Bucket selects the policy bucket for the endpoint. Empty means
	// BucketDefault.
	Bucket Bucket

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool

	// Validate rejects malformed requests before the bucket's counter is
	// charged. A returned error produces a 400 without consuming budget.
	Validate func(ctx huma.Context) error
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
