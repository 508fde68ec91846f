package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is anything with a start/stop lifecycle the group can manage.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup starts a set of consumers together and tears them down
// together with their shared subscriber. Start is all-or-nothing: when a
// consumer fails to start, the members already running are stopped again.
type ConsumerGroup struct {
	subscriber message.Subscriber
	logger     *zap.Logger
	members    []Runnable
}

// NewConsumerGroup creates an empty group over a shared subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a member. Not safe to call after Start.
func (g *ConsumerGroup) Add(member Runnable) {
	g.members = append(g.members, member)
}

// Start starts every member in registration order.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, member := range g.members {
		if err := member.Start(ctx); err != nil {
			for _, running := range g.members[:i] {
				_ = running.Shutdown()
			}

			return fmt.Errorf("consumer %d: %w", i, err)
		}
	}

	g.logger.Info("consumers running", zap.Int("consumers", len(g.members)))

	return nil
}

// Shutdown stops every member and closes the subscriber. All members are
// stopped even when some fail; the first error wins.
func (g *ConsumerGroup) Shutdown() error {
	var firstErr error

	for _, member := range g.members {
		if err := member.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := g.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
