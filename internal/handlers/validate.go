package handlers

import (
	"fmt"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/varesk/statsgate/internal/leaderboard"
)

// ValidateQuery checks a raw leaderboard query before the rate limiter
// charges the caller's bucket. It mirrors the handler's own validation so
// malformed requests always get a 400, never a 429, and never consume
// admission budget.
func ValidateQuery(ctx huma.Context) error {
	if _, err := leaderboard.ParseScopes(ctx.Query("scopes")); err != nil {
		return err
	}

	params, err := paramsFromQuery(ctx)
	if err != nil {
		return err
	}

	return params.Validate()
}

// paramsFromQuery parses the optional query parameters, applying the same
// defaults the request binding does.
func paramsFromQuery(ctx huma.Context) (leaderboard.Params, error) {
	params := leaderboard.Params{SortBy: "kills", Order: "desc", Limit: 100}

	if v := ctx.Query("sortBy"); v != "" {
		params.SortBy = v
	}

	if v := ctx.Query("order"); v != "" {
		params.Order = v
	}

	var err error

	if v := ctx.Query("limit"); v != "" {
		if params.Limit, err = strconv.Atoi(v); err != nil {
			return params, fmt.Errorf("%w: limit must be an integer", leaderboard.ErrInvalidQuery)
		}
	}

	if v := ctx.Query("month"); v != "" {
		if params.Month, err = strconv.Atoi(v); err != nil {
			return params, fmt.Errorf("%w: month must be an integer", leaderboard.ErrInvalidQuery)
		}
	}

	if v := ctx.Query("year"); v != "" {
		if params.Year, err = strconv.Atoi(v); err != nil {
			return params, fmt.Errorf("%w: year must be an integer", leaderboard.ErrInvalidQuery)
		}
	}

	return params, nil
}
