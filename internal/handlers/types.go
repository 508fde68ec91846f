package handlers

import (
	"context"

	"github.com/varesk/statsgate/internal/leaderboard"
)

// LeaderboardRequest is the query surface for a batch leaderboard request.
type LeaderboardRequest struct {
	Scopes      string `doc:"Comma-separated scope list (day, week, month, lifetime)" example:"day,week,lifetime" query:"scopes"   required:"true"`
	SortBy      string `default:"kills"                                               doc:"Field to rank by"      enum:"kills,deaths,wins,score,playtime" query:"sortBy"`
	Order       string `default:"desc"                                                doc:"Sort direction"        enum:"asc,desc"                         query:"order"`
	Limit       int    `default:"100"                                                 doc:"Maximum entries per scope" maximum:"500" minimum:"1" query:"limit"`
	Month       int    `doc:"Calendar month for the month scope (requires year)" maximum:"12" minimum:"0" query:"month"`
	Year        int    `doc:"Calendar year for the month scope (requires month)" query:"year"`
	IfNoneMatch string `doc:"Prior response validator" header:"If-None-Match"`
}

// LeaderboardResponse carries the merged payload, or an empty body with
// status 304 when the client's validator still matches.
type LeaderboardResponse struct {
	Status  int
	Headers struct {
		ETag         string `header:"ETag"`
		CacheControl string `header:"Cache-Control"`
	}
	Body []byte `contentType:"application/json"`
}

// LeaderboardPayload is the JSON shape of a successful response body.
type LeaderboardPayload struct {
	Results map[string]*leaderboard.Result `json:"results"`
	Errors  map[string]string              `json:"errors,omitempty"`
}

type requestMetaKey struct{}

// RequestMeta holds request metadata used for analytics events.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
