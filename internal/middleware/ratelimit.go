package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/varesk/statsgate/internal/analytics"
	"github.com/varesk/statsgate/internal/messaging"
	"github.com/varesk/statsgate/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a huma middleware that admits or rejects requests
// before any cache or upstream work happens. Malformed requests are
// rejected with a 400 before the counter is charged. Denied requests get
// a 429 with retry metadata; allowed requests carry the limiter's
// counters as headers so well-behaved clients can pace themselves.
func RateLimiter(
	api huma.API,
	limiter *ratelimit.FixedWindowLimiter,
	publishDenied messaging.Publish[analytics.RateLimitedEvent],
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		if cfg != nil && cfg.Validate != nil {
			if err := cfg.Validate(ctx); err != nil {
				_ = huma.WriteErr(api, ctx, http.StatusBadRequest, err.Error())

				return
			}
		}

		bucket := ratelimit.BucketDefault
		if cfg != nil && cfg.Bucket != "" {
			bucket = cfg.Bucket
		}

		identity := clientIP(ctx)

		decision, err := limiter.Check(ctx.Context(), bucket, identity)
		if err != nil {
			logger.Error("rate limit check failed",
				zap.String("bucket", string(bucket)),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		// No policy means no counters; pacing headers would be noise.
		if decision.Unlimited {
			next(ctx)

			return
		}

		ctx.SetHeader("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
		ctx.SetHeader("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		ctx.SetHeader("X-RateLimit-Reset", strconv.FormatInt(ceilSeconds(decision.Reset), 10))

		if !decision.Allowed {
			ctx.SetHeader("Retry-After", strconv.FormatInt(ceilSeconds(decision.Reset), 10))

			logger.Warn("rate limit exceeded",
				zap.String("bucket", string(bucket)),
				zap.String("client_ip", identity),
				zap.Int64("limit", decision.Limit),
				zap.Duration("reset", decision.Reset),
			)

			if err := publishDenied(&analytics.RateLimitedEvent{
				Bucket:   string(bucket),
				ClientIP: identity,
				Limit:    decision.Limit,
				DeniedAt: time.Now(),
			}); err != nil {
				logger.Error("failed to publish rate limited event", zap.Error(err))
			}

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		next(ctx)
	}
}

func ceilSeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}

// clientIP extracts the caller identity for rate limiting. Forwarded
// headers are trusted first; only deploy this service behind a proxy that
// overwrites them.
func clientIP(ctx huma.Context) string {
	// X-Forwarded-For may carry a chain; the first entry is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
