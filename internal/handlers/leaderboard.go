package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/varesk/statsgate/internal/analytics"
	"github.com/varesk/statsgate/internal/leaderboard"
	"github.com/varesk/statsgate/internal/messaging"
	"go.uber.org/zap"
)

// cacheControl lets intermediaries serve popular queries briefly and
// revalidate stale copies in the background.
const cacheControl = "max-age=60, stale-while-revalidate=300"

// LeaderboardHandler serves batch leaderboard queries: resolve the
// requested scopes through the aggregator, then answer conditionally
// against the client's validator. Rate limiting happens upstream in
// middleware, so a denied request never reaches this handler.
type LeaderboardHandler struct {
	aggregator     *leaderboard.Aggregator
	publishQueried messaging.Publish[analytics.LeaderboardQueriedEvent]
	logger         *zap.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(
	aggregator *leaderboard.Aggregator,
	publishQueried messaging.Publish[analytics.LeaderboardQueriedEvent],
	logger *zap.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		aggregator:     aggregator,
		publishQueried: publishQueried,
		logger:         logger,
	}
}

func (h *LeaderboardHandler) Get(ctx context.Context, req *LeaderboardRequest) (*LeaderboardResponse, error) {
	scopes, err := leaderboard.ParseScopes(req.Scopes)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	params := leaderboard.Params{
		SortBy: req.SortBy,
		Order:  req.Order,
		Limit:  req.Limit,
		Month:  req.Month,
		Year:   req.Year,
	}

	if err := params.Validate(); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	resolution := h.aggregator.Resolve(ctx, scopes, params)

	payload := LeaderboardPayload{
		Results: make(map[string]*leaderboard.Result, len(resolution.Results)),
	}

	for scope, result := range resolution.Results {
		payload.Results[string(scope)] = result
	}

	if len(resolution.Errors) > 0 {
		payload.Errors = make(map[string]string, len(resolution.Errors))

		for scope, msg := range resolution.Errors {
			payload.Errors[string(scope)] = msg
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to encode leaderboard")
	}

	h.publishEvent(ctx, scopes, params, resolution)

	etag := ETag(body)

	resp := &LeaderboardResponse{}
	resp.Headers.ETag = etag
	resp.Headers.CacheControl = cacheControl

	if ETagMatches(req.IfNoneMatch, etag) {
		resp.Status = http.StatusNotModified

		return resp, nil
	}

	resp.Body = body

	return resp, nil
}

func (h *LeaderboardHandler) publishEvent(
	ctx context.Context,
	scopes []leaderboard.Scope,
	params leaderboard.Params,
	resolution leaderboard.Resolution,
) {
	meta := RequestMetaFromContext(ctx)

	event := &analytics.LeaderboardQueriedEvent{
		SortBy:      params.SortBy,
		Order:       params.Order,
		Limit:       params.Limit,
		Month:       params.Month,
		Year:        params.Year,
		CacheHits:   resolution.CacheHits,
		CacheMisses: resolution.CacheMisses,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
		QueriedAt:   time.Now(),
	}

	for _, scope := range scopes {
		event.Scopes = append(event.Scopes, string(scope))
	}

	for scope := range resolution.Errors {
		event.FailedScopes = append(event.FailedScopes, string(scope))
	}

	if err := h.publishQueried(event); err != nil {
		h.logger.Error("failed to publish query event",
			zap.Strings("scopes", event.Scopes),
			zap.Error(err),
		)
	}
}
