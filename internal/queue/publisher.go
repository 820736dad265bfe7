package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes each event on a short-lived connection to a
// durable queue named after the event type.
type RabbitPublisher struct {
	URL string
}

func (p RabbitPublisher) Publish(ctx context.Context, event BookingEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		event.Type, // name
		true,       // durable
		false,      // autoDelete
		false,      // exclusive
		false,      // noWait
		nil,        // args
	); err != nil {
		log.Printf("rabbitmq: queue declare %s failed: %v", event.Type, err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", event.Type, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", event.Type, err)
		return err
	}
	return nil
}

// NopPublisher drops events. Used when RABBITMQ_URL is empty.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }
