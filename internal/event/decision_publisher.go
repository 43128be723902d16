package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DecisionPublisher publishes order decision events to RabbitMQ. Counters
// are atomics: handlers publish concurrently.
type DecisionPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
	lastPublishNano   atomic.Int64
}

// PublisherStats is a point-in-time snapshot of publisher activity.
type PublisherStats struct {
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
}

// NewDecisionPublisher creates a new order decision event publisher.
func NewDecisionPublisher(conn *RabbitMQConnection) *DecisionPublisher {
	p := &DecisionPublisher{conn: conn}
	p.lastPublishNano.Store(time.Now().UnixNano())
	return p
}

// GetStats returns a snapshot of the publish counters.
func (p *DecisionPublisher) GetStats() PublisherStats {
	return PublisherStats{
		MessagesPublished: p.messagesPublished.Load(),
		MessagesFailed:    p.messagesFailed.Load(),
		LastPublishTime:   time.Unix(0, p.lastPublishNano.Load()),
	}
}

// PublishDecision publishes an order decision event to the
// order_decision_events queue.
func (p *DecisionPublisher) PublishDecision(ctx context.Context, event OrderDecisionEvent) error {
	if p.conn == nil || p.conn.Channel == nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("rabbitmq connection is not open")
	}

	_, err := p.conn.Channel.QueueDeclare(
		OrderDecisionQueue, // queue name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                 // exchange
		OrderDecisionQueue, // routing key (queue name)
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to publish decision event: %w", err)
	}

	p.messagesPublished.Add(1)
	p.lastPublishNano.Store(time.Now().UnixNano())

	slog.Info("Order decision event published",
		"queue", OrderDecisionQueue,
		"order_id", event.OrderID,
		"status", event.Status,
	)

	return nil
}
