package messagequeue

import (
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// RabbitMQ is an implementation of the MessageQueue interface using RabbitMQ.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQ connects to the broker and opens a channel.
func NewRabbitMQ(url string) (MessageQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	return &RabbitMQ{conn: conn, channel: ch}, nil
}

// Publish sends a message to the named queue, declaring it durable first.
func (r *RabbitMQ) Publish(queueName string, body []byte) error {
	q, err := r.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}

	return r.channel.Publish(
		"",     // exchange
		q.Name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume registers a handler for messages on the named queue. Messages are
// acked only after the handler returns.
func (r *RabbitMQ) Consume(queueName string, handler func(body []byte)) error {
	q, err := r.channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}

	msgs, err := r.channel.Consume(
		q.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on queue '%s': %w", queueName, err)
	}

	go func() {
		for d := range msgs {
			handler(d.Body)
			if err := d.Ack(false); err != nil {
				log.Printf("failed to ack message on queue '%s': %v", queueName, err)
			}
		}
	}()

	return nil
}

// Close shuts down the channel and connection.
func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}
