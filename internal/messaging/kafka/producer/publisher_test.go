package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-staff/internal/messaging/kafka"
	"go-staff/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := producer.NewPublisher(w, zap.NewNop())

	err := p.Publish(context.Background(), kafka.Message{
		Topic:         "staff.employee.lifecycle.v1",
		AggregateType: "employee",
		AggregateID:   "12",
		EventType:     "employee.created",
		RequestID:     "req-1",
		Payload:       []byte(`{"employee_id":12}`),
	})

	assert.NoError(t, err)
	assert.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "staff.employee.lifecycle.v1", msg.Topic)
	assert.Equal(t, []byte("12"), msg.Key)
	assert.Equal(t, []kafkago.Header{
		{Key: "event_type", Value: []byte("employee.created")},
		{Key: "aggregate_type", Value: []byte("employee")},
		{Key: "request_id", Value: []byte("req-1")},
	}, msg.Headers)
}

func TestPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := producer.NewPublisher(w, zap.NewNop())

	err := p.Publish(context.Background(), kafka.Message{Topic: "t", AggregateID: "1"})

	assert.EqualError(t, err, "leader not available")
}

func TestNop(t *testing.T) {
	assert.NoError(t, producer.Nop().Publish(context.Background(), kafka.Message{}))
}
