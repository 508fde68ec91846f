package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveQueried(ctx context.Context, event *LeaderboardQueriedEvent) error
	SaveRateLimited(ctx context.Context, event *RateLimitedEvent) error
}

// Recorder adapts a Store to the generic consumer handler shape, one
// method per topic.
type Recorder struct {
	store Store
}

// NewRecorder creates a new event recorder.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) HandleQueried(ctx context.Context, event *LeaderboardQueriedEvent) error {
	return r.store.SaveQueried(ctx, event)
}

func (r *Recorder) HandleRateLimited(ctx context.Context, event *RateLimitedEvent) error {
	return r.store.SaveRateLimited(ctx, event)
}
