package messaging

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeAppointments = "appointments"

	QueueNotifications = "appointment.notifications"
	QueueReminders     = "appointment.reminders"
)

// Client wraps one long-lived RabbitMQ connection and channel, shared
// across all in-flight operations. AMQP channels are not safe for
// concurrent publishes, so publish calls are serialized on a mutex.
type Client struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func Connect(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	c := &Client{conn: conn, ch: ch}

	if err := c.declareTopology(); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	go func() {
		for err := range conn.NotifyClose(make(chan *amqp.Error, 1)) {
			log.Printf("rabbitmq connection closed: %v", err)
		}
	}()

	return c, nil
}

func (c *Client) declareTopology() error {
	if err := c.ch.ExchangeDeclare(
		ExchangeAppointments,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeAppointments, err)
	}

	for _, queue := range []string{QueueNotifications, QueueReminders} {
		if _, err := c.ch.QueueDeclare(
			queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
	}

	// Only the notifications queue is bound. The reminders queue stays
	// unbound until a reminder consumer exists.
	// TODO: bind appointment.reminders when the reminder worker lands.
	if err := c.ch.QueueBind(
		QueueNotifications,
		"appointment.*",
		ExchangeAppointments,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueNotifications, err)
	}

	return nil
}

// publish delivers one message to the appointments exchange, marked
// persistent so it survives a broker restart.
func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ch.PublishWithContext(ctx,
		ExchangeAppointments,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Healthy reports whether the connection is still open.
func (c *Client) Healthy() bool {
	return c.conn != nil && !c.conn.IsClosed()
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ch.Close(); err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("close rabbitmq channel: %w", err)
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("close rabbitmq connection: %w", err)
	}

	return nil
}
