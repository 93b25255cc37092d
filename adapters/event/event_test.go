package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

func TestProjectEventRoundTrip(t *testing.T) {
	in := service.ProjectEventPayload{
		EventType:  service.ProjectEventCreated,
		ProjectID:  uuid.NewString(),
		OwnerID:    uuid.New(),
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	msg, err := encode(in.ProjectID, in)
	require.NoError(t, err)
	assert.Equal(t, in.ProjectID, string(msg.Key))

	out, err := DecodeProjectEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := DecodeProjectEvent(kafka.Message{Value: []byte("{")})
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = DecodeMediaEvent(kafka.Message{Value: []byte(`{"asset_id":"a"}`)})
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestProducerNeedsBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNop())
	assert.Error(t, err)

	var cfg config.Config
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	c, err := NewKafkaProducerClient(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, TopicProjectEvents, c.ProjectEventsWriter.Topic)
	assert.True(t, c.MediaEventsWriter.Async)
	c.Close()
}
