// Package container wires the service graph. Each concern is registered by
// its own provider package so binaries compose only what they need.
package container

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/varesk/statsgate/internal/analytics"
	analyticsstore "github.com/varesk/statsgate/internal/analytics/store"
	"github.com/varesk/statsgate/internal/cache"
	"github.com/varesk/statsgate/internal/handlers"
	"github.com/varesk/statsgate/internal/health"
	"github.com/varesk/statsgate/internal/leaderboard"
	"github.com/varesk/statsgate/internal/messaging"
	"github.com/varesk/statsgate/internal/middleware"
	"github.com/varesk/statsgate/internal/ratelimit"
	"github.com/varesk/statsgate/internal/store"
	"go.uber.org/zap"
)

// Options is the externally overridable configuration surface.
type Options struct {
	Port            int    `default:"8888"                               help:"Port to listen on"                                short:"p"`
	RedisAddr       string `default:"localhost:6379"                     help:"Redis server address"                             short:"r"`
	PostgresDSN     string `default:"postgres://localhost:5432/statsgate" help:"Postgres connection string"`
	CounterBackend  string `default:"redis"                              help:"Rate limit counter backend (redis or local)"`
	RateLimitWindow int    `default:"60"                                 help:"Rate limit window in seconds"`
	RateLimitMax    int64  `default:"30"                                 help:"Max requests per window per client"`
	CacheCapacity   int    `default:"256"                                help:"Result cache capacity in entries"`
	CacheTTL        int    `default:"120"                                help:"Result cache TTL in seconds"`
	FetchTimeout    int    `default:"5"                                  help:"Upstream fetch timeout in seconds"`
	CounterTimeout  int    `default:"2"                                  help:"Shared counter round trip timeout in seconds"`
	LogFormat       string `default:"console"                            help:"Log format (console or json)"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx connection pool for the stats store.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		return pgxpool.New(context.Background(), options.PostgresDSN)
	})
}

// CounterPackage provides the rate limit counter store. The redis backend
// is wrapped in a fallback that degrades to local counters when redis is
// unreachable.
func CounterPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.CounterStore, error) {
		options := do.MustInvoke[*Options](i)

		if options.CounterBackend == "local" {
			return store.NewCounterMemoryStore(), nil
		}

		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		shared := store.NewCounterRedisStore(client, time.Duration(options.CounterTimeout)*time.Second)

		return store.NewCounterFallbackStore(shared, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (health.CounterProbe, error) {
		if fallback, ok := do.MustInvoke[ratelimit.CounterStore](i).(*store.CounterFallbackStore); ok {
			return fallback, nil
		}

		return nil, nil
	})
}

// RateLimitPackage provides the fixed-window limiter and its policy.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.FixedWindowLimiter, error) {
		options := do.MustInvoke[*Options](i)
		counters := do.MustInvoke[ratelimit.CounterStore](i)

		window := time.Duration(options.RateLimitWindow) * time.Second

		policy := ratelimit.Policy{
			ratelimit.BucketDefault:     {Window: window, Max: options.RateLimitMax * 2},
			ratelimit.BucketLeaderboard: {Window: window, Max: options.RateLimitMax},
		}

		return ratelimit.NewFixedWindowLimiter(counters, policy)
	})
}

// LeaderboardPackage provides the result cache, the Postgres fetcher, and
// the aggregator composed from them.
func LeaderboardPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cache.Cache[*leaderboard.Result], error) {
		options := do.MustInvoke[*Options](i)

		return cache.New[*leaderboard.Result](options.CacheCapacity)
	})

	do.Provide(injector, func(i *do.Injector) (leaderboard.Fetcher, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)

		return store.NewPostgresFetcher(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (*leaderboard.Aggregator, error) {
		options := do.MustInvoke[*Options](i)
		resultCache := do.MustInvoke[*cache.Cache[*leaderboard.Result]](i)
		fetcher := do.MustInvoke[leaderboard.Fetcher](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return leaderboard.NewAggregator(
			resultCache,
			fetcher,
			time.Duration(options.CacheTTL)*time.Second,
			time.Duration(options.FetchTimeout)*time.Second,
			logger,
		), nil
	})
}

// PublisherGroupPackage provides the analytics event publisher over redis
// streams.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group used by the
// consumer binary.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		recorder := analytics.NewRecorder(analyticsstore.NewNoop(logger))

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLeaderboardQueried, recorder.HandleQueried, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicRateLimited, recorder.HandleRateLimited, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the API with middlewares and routes
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[*ratelimit.FixedWindowLimiter](i)
		aggregator := do.MustInvoke[*leaderboard.Aggregator](i)
		redisClient := do.MustInvoke[*redis.Client](i)
		counterProbe := do.MustInvoke[health.CounterProbe](i)
		publisherGroup := do.MustInvoke[*messaging.PublisherGroup](i)

		api := humachi.New(router, huma.DefaultConfig("StatsGate", "1.0.0"))

		publishQueried := messaging.NewPublishFunc[analytics.LeaderboardQueriedEvent](
			publisherGroup.Publisher(), analytics.TopicLeaderboardQueried)
		publishDenied := messaging.NewPublishFunc[analytics.RateLimitedEvent](
			publisherGroup.Publisher(), analytics.TopicRateLimited)

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, limiter, publishDenied, logger),
		)

		leaderboardHandler := handlers.NewLeaderboardHandler(aggregator, publishQueried, logger)
		handlers.RegisterRoutes(api, leaderboardHandler)

		healthHandler := health.NewHandler(health.NewRedisChecker(redisClient), counterProbe)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}
