package messaging

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes one decoded event. A returned error nacks the message
// so the broker redelivers it.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer decodes messages from a single topic into T and hands them to
// a Handler. Ack and nack are driven entirely by the handler's error.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	logger     *zap.Logger

	stop    context.CancelFunc
	stopped chan struct{}
}

// NewConsumer creates a consumer for one topic and event type.
func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
) *Consumer[T] {
	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		stopped:    make(chan struct{}),
	}
}

// Topic reports which topic this consumer reads.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes to the topic and drains messages in the background
// until the context is cancelled or the subscriber closes its channel.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.stop = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		c.stop = nil

		return err
	}

	go func() {
		defer close(c.stopped)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				c.dispatch(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer[T]) dispatch(ctx context.Context, msg *message.Message) {
	event := new(T)
	if err := json.Unmarshal(msg.Payload, event); err != nil {
		c.logger.Error("undecodable event payload",
			zap.String("message_id", msg.UUID),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	if err := c.handler(ctx, event); err != nil {
		c.logger.Error("event handler failed",
			zap.String("message_id", msg.UUID),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	msg.Ack()
}

// Shutdown cancels the subscription and waits for the drain loop to exit.
// Shutting down a consumer that never started is a no-op.
func (c *Consumer[T]) Shutdown() error {
	if c.stop == nil {
		return nil
	}

	c.stop()
	<-c.stopped

	return nil
}
