// Package leaderboard resolves multi-scope leaderboard queries against an
// expensive aggregation source, caching results per query.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Scope identifies one independently-parameterized aggregation window
// within a batch request.
type Scope string

const (
	ScopeDay      Scope = "day"
	ScopeWeek     Scope = "week"
	ScopeMonth    Scope = "month"
	ScopeLifetime Scope = "lifetime"
)

// MaxLimit caps the number of entries a single query may request.
const MaxLimit = 500

var (
	ErrNoScopes     = errors.New("no scopes requested")
	ErrUnknownScope = errors.New("unknown scope")
	ErrInvalidQuery = errors.New("invalid query parameters")
)

var validScopes = map[Scope]bool{
	ScopeDay:      true,
	ScopeWeek:     true,
	ScopeMonth:    true,
	ScopeLifetime: true,
}

// SortFields lists the record fields a leaderboard can be ranked by.
var SortFields = []string{"kills", "deaths", "wins", "score", "playtime"}

// ParseScopes parses a comma-separated scope list, dropping duplicates
// while preserving order.
func ParseScopes(raw string) ([]Scope, error) {
	seen := make(map[Scope]bool)

	var scopes []Scope

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		scope := Scope(part)
		if !validScopes[scope] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScope, part)
		}

		if seen[scope] {
			continue
		}

		seen[scope] = true
		scopes = append(scopes, scope)
	}

	if len(scopes) == 0 {
		return nil, ErrNoScopes
	}

	return scopes, nil
}

// Params are the query parameters shared by every scope in a batch request.
// Month and Year are optional time-bucketing parameters; zero means unset.
type Params struct {
	SortBy string
	Order  string
	Limit  int
	Month  int
	Year   int
}

// Validate rejects malformed parameters before any rate limit or cache work.
func (p Params) Validate() error {
	valid := false

	for _, field := range SortFields {
		if p.SortBy == field {
			valid = true

			break
		}
	}

	if !valid {
		return fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, p.SortBy)
	}

	if p.Order != "asc" && p.Order != "desc" {
		return fmt.Errorf("%w: order must be asc or desc", ErrInvalidQuery)
	}

	if p.Limit <= 0 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, MaxLimit)
	}

	if (p.Month == 0) != (p.Year == 0) {
		return fmt.Errorf("%w: month and year must be provided together", ErrInvalidQuery)
	}

	if p.Month != 0 && (p.Month < 1 || p.Month > 12) {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidQuery)
	}

	if p.Year != 0 && (p.Year < 2000 || p.Year > 2100) {
		return fmt.Errorf("%w: year out of range", ErrInvalidQuery)
	}

	return nil
}

// Query is the immutable tuple of parameters identifying one aggregation query.
type Query struct {
	Scope Scope
	Params
}

// Entry is one ranked row of a leaderboard.
type Entry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Value  int64  `json:"value"`
}

// Result is a successfully computed leaderboard for one query.
type Result struct {
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fetcher computes a leaderboard from the aggregation source. Calls may be
// slow, may fail, and may run concurrently for different queries.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*Result, error)
}
