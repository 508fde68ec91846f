package leaderboard

import (
	"context"
	"time"

	"github.com/varesk/statsgate/internal/cache"
	"go.uber.org/zap"
)

// Resolution is the outcome of resolving a batch of scopes. Every
// requested scope appears in exactly one of Results or Errors.
type Resolution struct {
	Results     map[Scope]*Result
	Errors      map[Scope]string
	CacheHits   int
	CacheMisses int
}

// Aggregator resolves scopes from the result cache where possible and
// fetches the rest from the aggregation source concurrently. It holds no
// per-call state; the cache is the only shared mutable state and is safe
// for concurrent use.
type Aggregator struct {
	cache   *cache.Cache[*Result]
	fetcher Fetcher
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

// NewAggregator creates an aggregator. Successful fetches are cached for
// ttl; each upstream fetch is bounded by timeout.
func NewAggregator(
	c *cache.Cache[*Result],
	fetcher Fetcher,
	ttl time.Duration,
	timeout time.Duration,
	logger *zap.Logger,
) *Aggregator {
	return &Aggregator{
		cache:   c,
		fetcher: fetcher,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
	}
}

type fetchResult struct {
	query  Query
	result *Result
	err    error
}

// Resolve resolves every requested scope using params. Cached scopes are
// served immediately; misses are fetched concurrently, and a slow or
// failing scope never blocks or aborts the others. Failed fetches are
// surfaced in Errors and never cached, so a later retry is not poisoned.
func (a *Aggregator) Resolve(ctx context.Context, scopes []Scope, params Params) Resolution {
	res := Resolution{
		Results: make(map[Scope]*Result, len(scopes)),
		Errors:  make(map[Scope]string),
	}

	var misses []Query

	for _, scope := range scopes {
		q := Query{Scope: scope, Params: params}

		if cached, ok := a.cache.Get(CacheKey(q)); ok {
			res.Results[scope] = cached
			res.CacheHits++

			continue
		}

		misses = append(misses, q)
		res.CacheMisses++
	}

	if len(misses) == 0 {
		return res
	}

	out := make(chan fetchResult, len(misses))

	for _, q := range misses {
		go func(q Query) {
			result, err := a.fetchOne(ctx, q)
			out <- fetchResult{query: q, result: result, err: err}
		}(q)
	}

	// Wait for all fetches to settle regardless of individual failure.
	for range misses {
		fr := <-out

		if fr.err != nil {
			a.logger.Warn("scope fetch failed",
				zap.String("scope", string(fr.query.Scope)),
				zap.Error(fr.err),
			)

			res.Errors[fr.query.Scope] = fr.err.Error()

			continue
		}

		a.cache.Put(CacheKey(fr.query), fr.result, a.ttl)
		res.Results[fr.query.Scope] = fr.result
	}

	return res
}

func (a *Aggregator) fetchOne(ctx context.Context, q Query) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	return a.fetcher.Fetch(ctx, q)
}
