package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends seat events to RabbitMQ.  It dials per message, which
// keeps it free of connection state; the event rate of a single cabin
// is a handful per minute.  Errors are logged and returned so callers
// can choose to ignore them.
type Publisher struct {
	url string
	log logrus.FieldLogger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
	return &Publisher{url: url, log: log}
}

// PublishBookingConfirmed publishes ev to the booking.confirmed queue.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error {
	return p.publish(ctx, BookingConfirmedQueue, ev)
}

// PublishHoldExpired publishes ev to the hold.expired queue.
func (p *Publisher) PublishHoldExpired(ctx context.Context, ev HoldExpiredEvent) error {
	return p.publish(ctx, HoldExpiredQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, payload any) error {
	log := p.log.WithField("queue", queue)

	pub, err := newPublishing(payload, time.Now().UTC())
	if err != nil {
		log.WithError(err).Error("rabbitmq: marshal event failed")
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.WithError(err).Error("rabbitmq: dial failed")
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Error("rabbitmq: channel open failed")
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declareQueue(ch, queue); err != nil {
		log.WithError(err).Error("rabbitmq: queue declare failed")
		return err
	}

	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		log.WithError(err).Error("rabbitmq: publish failed")
		return fmt.Errorf("publish %s: %w", queue, err)
	}
	return nil
}

// newPublishing wraps payload as a persistent JSON message.
func newPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}, nil
}

// declareQueue makes sure queue exists.  Durable so messages survive
// broker restarts.
func declareQueue(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare %s: %w", queue, err)
	}
	return nil
}
