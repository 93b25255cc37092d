package event

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/vlog-studio/internal/application/service"
	"github.com/khoahotran/vlog-studio/internal/config"
	"github.com/khoahotran/vlog-studio/pkg/logger"
)

// Handler processes one message. Returning an error leaves the message
// uncommitted so it is redelivered.
type Handler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader *kafka.Reader
	logger logger.Logger
}

func NewConsumer(cfg config.Config, topic, groupID string, log logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, logger: log.With(zap.String("topic", topic))}
}

// Run reads until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	c.logger.Info("Worker listening on topic")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		if err := handle(ctx, msg); err != nil {
			c.logger.Error("Failed to process event", err, zap.String("key", string(msg.Key)))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// DecodeProjectEvent and DecodeMediaEvent report malformed payloads with
// ErrMalformedEvent so handlers can skip them instead of retrying forever.
var ErrMalformedEvent = errors.New("malformed event payload")

func DecodeProjectEvent(msg kafka.Message) (service.ProjectEventPayload, error) {
	var p service.ProjectEventPayload
	if err := json.Unmarshal(msg.Value, &p); err != nil || p.ProjectID == "" {
		return p, ErrMalformedEvent
	}
	return p, nil
}

func DecodeMediaEvent(msg kafka.Message) (service.MediaEventPayload, error) {
	var p service.MediaEventPayload
	if err := json.Unmarshal(msg.Value, &p); err != nil || p.StoragePath == "" {
		return p, ErrMalformedEvent
	}
	return p, nil
}
