package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/varesk/statsgate/internal/ratelimit"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// CounterProbe reports whether the shared rate limit counter backend has
// degraded to local counters.
type CounterProbe interface {
	Degraded() bool
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler handles health check operations.
type Handler struct {
	redis   Checker
	counter CounterProbe
}

// NewHandler creates a new health handler. counter may be nil when the
// service runs with local-only counters.
func NewHandler(redis Checker, counter CounterProbe) *Handler {
	return &Handler{redis: redis, counter: counter}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status  string `json:"status"`
		Redis   string `json:"redis"`
		Counter string `json:"counter"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	if err := h.redis.Ping(ctx); err != nil {
		resp.Body.Redis = "unhealthy"
		resp.Body.Status = "degraded"
	} else {
		resp.Body.Redis = "healthy"
	}

	switch {
	case h.counter == nil:
		resp.Body.Counter = "local"
	case h.counter.Degraded():
		resp.Body.Counter = "local-fallback"
		resp.Body.Status = "degraded"
	default:
		resp.Body.Counter = "shared"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes. Health probes are exempt
// from rate limiting so orchestrators never get throttled out.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/health",
		Summary: "Service health",
		Tags:    []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Disabled: true,
			},
		},
	}, h.Check)
}
