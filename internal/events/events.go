// Package events publishes domain events to RabbitMQ. Publishing is best
// effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "fitclub.events"

const (
	TypeSubscribed             = "subscription.subscribed"
	TypeSubscriptionCancelled  = "subscription.cancelled"
	TypeBookingCreated         = "booking.created"
	TypeBookingCancelled       = "booking.cancelled"
	TypeStaffDeleted           = "staff.deleted"
	TypeAdminSubscriptionClose = "admin.subscription_cancelled"
	TypeSupplementOrderPlaced  = "supplement.order_placed"
)

type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func New(eventType string, at time.Time, payload interface{}) Event {
	return Event{ID: uuid.New(), Type: eventType, OccurredAt: at.UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPPublisher struct {
	conn *amqp.Connection
	ch   channel
	mu   sync.Mutex
}

// Dial connects to the broker and declares the topic exchange events go to.
func Dial(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Type:         e.Type,
		Timestamp:    e.OccurredAt,
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, Exchange, e.Type, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Emit publishes e and only logs and counts a failure.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		metrics.RecordPublishFailure(e.Type)
		logger.Warn("event publish failed", "type", e.Type, "event_id", e.ID.String(), "error", err.Error())
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
