package kafka

// Message is one domain event ready to be written to a topic. AggregateID
// is used as the partition key so events for one record stay ordered.
type Message struct {
	Topic         string
	AggregateType string
	AggregateID   string
	EventType     string
	RequestID     string
	Payload       []byte
}
