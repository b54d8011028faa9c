package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer struct {
	reader *kafka.Reader
	log    *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// EventHandler processes one decoded booking event.
type EventHandler func(ctx context.Context, event BookingEvent) error

// Consume reads until ctx is cancelled. Undecodable messages are logged and
// skipped; a handler error stops consumption.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := HandleMessage(ctx, msg, handler, c.log); err != nil {
			return err
		}
	}
}

func HandleMessage(ctx context.Context, msg kafka.Message, handler EventHandler, log *zap.Logger) error {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Warn("skip undecodable event",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return nil
	}
	return handler(ctx, event)
}
