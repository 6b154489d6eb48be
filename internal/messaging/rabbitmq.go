package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	contactExchange = "agencia.contact"
	contactQueue    = "contact.requests"
	contactKey      = "contact.request"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// ContactRequest is the message published for every contact form
// submission. A back-office worker consumes these asynchronously so the
// web request never waits on email delivery.
type ContactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	rmq := &RabbitMQ{
		conn:    conn,
		channel: ch,
	}

	if err := rmq.Setup(); err != nil {
		rmq.Close()
		return nil, err
	}

	return rmq, nil
}

// NewRabbitMQWithRetry keeps dialing until the broker accepts the
// connection or the context is cancelled. Used at startup, where the
// broker container may come up after the web server.
func NewRabbitMQWithRetry(ctx context.Context, url string, interval time.Duration) (*RabbitMQ, error) {
	for {
		rmq, err := NewRabbitMQ(url)
		if err == nil {
			return rmq, nil
		}

		slog.Warn("rabbitmq not ready, retrying",
			slog.Duration("interval", interval),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("giving up on RabbitMQ connection: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}

func (r *RabbitMQ) Setup() error {
	if err := r.channel.ExchangeDeclare(
		contactExchange, // name
		"direct",        // type
		true,            // durable
		false,           // auto-deleted
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	); err != nil {
		return fmt.Errorf("failed to declare contact exchange: %w", err)
	}

	if _, err := r.channel.QueueDeclare(
		contactQueue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare contact queue: %w", err)
	}

	if err := r.channel.QueueBind(
		contactQueue,
		contactKey,
		contactExchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind contact queue: %w", err)
	}

	slog.Info("rabbitmq setup completed successfully")
	return nil
}

func (r *RabbitMQ) PublishContactRequest(ctx context.Context, req *ContactRequest) error {
	if req.Timestamp == 0 {
		req.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal contact request: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		contactExchange,
		contactKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish contact request: %w", err)
	}

	slog.Info("published contact request",
		slog.String("email", req.Email))
	return nil
}

// ConsumeContactRequests delivers queued contact submissions. Consumers
// must ack each delivery after processing it.
func (r *RabbitMQ) ConsumeContactRequests() (<-chan amqp.Delivery, error) {
	msgs, err := r.channel.Consume(
		contactQueue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume contact requests: %w", err)
	}
	return msgs, nil
}

func (r *RabbitMQ) IsClosed() bool {
	return r.conn == nil || r.conn.IsClosed()
}

func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
