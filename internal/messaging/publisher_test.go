package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varesk/statsgate/internal/messaging"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

type publishTestEvent struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes event as json", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[publishTestEvent](mock, "test.topic")

		err := publish(&publishTestEvent{Bucket: "leaderboard", Count: 3})

		require.NoError(t, err)
		assert.Equal(t, "test.topic", mock.topic)
		require.Len(t, mock.messages, 1)
		assert.NotEmpty(t, mock.messages[0].UUID)
		assert.Contains(t, string(mock.messages[0].Payload), `"bucket":"leaderboard"`)
	})

	t.Run("returns error when publish fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[publishTestEvent](mock, "test.topic")

		err := publish(&publishTestEvent{Bucket: "default"})

		assert.Error(t, err)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("exposes the underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shuts down the publisher", func(t *testing.T) {
		group := messaging.NewPublisherGroup(&mockPublisher{})

		assert.NoError(t, group.Shutdown())
	})

	t.Run("returns error when close fails", func(t *testing.T) {
		group := messaging.NewPublisherGroup(&mockPublisher{closeErr: errors.New("close error")})

		assert.Error(t, group.Shutdown())
	})
}
