package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

const (
	TopicProjectEvents = "project.events"
	TopicMediaEvents   = "media.events"
)

// KafkaProducerClient publishes domain events. Writers run in async mode, so
// a publish returns once the message is queued and delivery failures are
// only logged.
type KafkaProducerClient struct {
	ProjectEventsWriter *kafka.Writer
	MediaEventsWriter   *kafka.Writer
	logger              logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	c := &KafkaProducerClient{logger: log}
	c.ProjectEventsWriter = c.newWriter(brokers, TopicProjectEvents)
	c.MediaEventsWriter = c.newWriter(brokers, TopicMediaEvents)

	log.Info("Initialize Kafka Producers successfully.")
	return c, nil
}

func (c *KafkaProducerClient) newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				c.logger.Error("Failed to deliver Kafka messages", err, zap.String("topic", topic), zap.Int("count", len(messages)))
			}
		},
	}
}

func (c *KafkaProducerClient) PublishProjectEvent(ctx context.Context, payload service.ProjectEventPayload) error {
	msg, err := encode(payload.ProjectID, payload)
	if err != nil {
		return err
	}
	return c.ProjectEventsWriter.WriteMessages(ctx, msg)
}

func (c *KafkaProducerClient) PublishMediaEvent(ctx context.Context, payload service.MediaEventPayload) error {
	msg, err := encode(payload.AssetID, payload)
	if err != nil {
		return err
	}
	return c.MediaEventsWriter.WriteMessages(ctx, msg)
}

func (c *KafkaProducerClient) Close() {
	if c.ProjectEventsWriter != nil {
		c.ProjectEventsWriter.Close()
	}
	if c.MediaEventsWriter != nil {
		c.MediaEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}

func encode(key string, payload any) (kafka.Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{Key: []byte(key), Value: value}, nil
}
