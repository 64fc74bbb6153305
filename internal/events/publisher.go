// Package events publishes tour lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const TourLocked = "tour.locked"

// TourLockedEvent is emitted once a tour's participants are frozen and its invoice stored.
type TourLockedEvent struct {
	TourID       string `json:"tour_id"`
	GuideID      string `json:"guide_id"`
	Date         string `json:"date"`
	InvoiceNo    string `json:"invoice_no"`
	InvoicePath  string `json:"invoice_path"`
	PersonsTotal int    `json:"persons_total"`
	Gross        string `json:"gross"`
	Commission   string `json:"commission"`
	Total        string `json:"total"`
	LockedAt     string `json:"locked_at"`
}

type Publisher interface {
	PublishTourLocked(ctx context.Context, event TourLockedEvent) error
}

// AMQPPublisher dials per publish; lock events are rare enough that a pooled
// connection is not worth its reconnect handling.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) PublishTourLocked(ctx context.Context, event TourLockedEvent) error {
	const op = "events.AMQPPublisher.PublishTourLocked"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%s: dial: %w", op, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: channel: %w", op, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(TourLocked, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: declare: %w", op, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", TourLocked, false, false, msg); err != nil {
		return fmt.Errorf("%s: publish: %w", op, err)
	}

	return nil
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishTourLocked(context.Context, TourLockedEvent) error { return nil }
