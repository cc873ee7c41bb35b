package employee

import (
	"context"
	"encoding/json"
	"strconv"

	"go-staff/internal/events"
	"go-staff/internal/messaging/kafka"
	"go-staff/internal/messaging/kafka/producer"
)

//go:generate mockgen -source=employee_event_publisher.go -destination=mock/employee_event_publisher_mock.go -package=mock
type EventPublisher interface {
	Publish(ctx context.Context, event events.EmployeeEvent) error
}

type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher { return noopEventPublisher{} }

func (noopEventPublisher) Publish(context.Context, events.EmployeeEvent) error {
	return nil
}

type kafkaEventPublisher struct {
	producer producer.Publisher
	topic    string
}

// NewKafkaEventPublisher writes lifecycle events to topic, or to
// events.EmployeeLifecycleTopic when topic is empty.
func NewKafkaEventPublisher(p producer.Publisher, topic string) EventPublisher {
	if topic == "" {
		topic = events.EmployeeLifecycleTopic
	}
	return &kafkaEventPublisher{producer: p, topic: topic}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, event events.EmployeeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, kafka.Message{
		Topic:         p.topic,
		AggregateType: "employee",
		AggregateID:   strconv.FormatUint(uint64(event.EmployeeID), 10),
		EventType:     event.EventType,
		RequestID:     event.RequestID,
		Payload:       payload,
	})
}
