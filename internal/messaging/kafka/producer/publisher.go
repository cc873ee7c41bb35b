package producer

import (
	"context"

	"go-staff/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type publisher struct {
	writer MessageWriter
	logger *zap.Logger
}

func NewPublisher(writer MessageWriter, logger ...*zap.Logger) Publisher {
	l := zap.L().Named("kafka.producer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer")
	}
	return &publisher{writer: writer, logger: l}
}

func (p *publisher) Publish(ctx context.Context, msg kafka.Message) error {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(msg.EventType)},
		{Key: "aggregate_type", Value: []byte(msg.AggregateType)},
	}
	if msg.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(msg.RequestID)})
	}

	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Topic:   msg.Topic,
		Key:     []byte(msg.AggregateID),
		Value:   msg.Payload,
		Headers: headers,
	})
	if err != nil {
		p.logger.Error("publish event failed",
			zap.String("topic", msg.Topic),
			zap.String("event_type", msg.EventType),
			zap.String("aggregate_id", msg.AggregateID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("event published",
		zap.String("topic", msg.Topic),
		zap.String("event_type", msg.EventType),
		zap.String("aggregate_id", msg.AggregateID),
	)
	return nil
}

type nopPublisher struct{}

// Nop is used when no broker is configured.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, kafka.Message) error { return nil }
