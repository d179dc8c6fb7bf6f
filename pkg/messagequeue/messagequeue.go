// Package messagequeue publishes settlement events to a message broker so
// downstream consumers (analytics, CRM sync) see completed payments without
// polling Firestore.
package messagequeue

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	Consume(queueName string, handler func(body []byte)) error
	Close() error
}

// Noop is a MessageQueue that drops everything, used when no broker URL is
// configured.
type Noop struct{}

// Publish discards the message.
func (Noop) Publish(queueName string, body []byte) error { return nil }

// Consume does nothing.
func (Noop) Consume(queueName string, handler func(body []byte)) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
