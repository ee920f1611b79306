package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer listens on the seat event queues and appends one line per
// message to <dir>/booking.log.
type Consumer struct {
	url string
	dir string
	log logrus.FieldLogger
}

// NewConsumer returns a Consumer for the broker at url writing into dir.
func NewConsumer(url, dir string, log logrus.FieldLogger) *Consumer {
	return &Consumer{url: url, dir: dir, log: log}
}

// Run connects to the broker and consumes until ctx is cancelled.
// Connection failures are retried with exponential backoff capped at
// 30s; a message that cannot be handled is rejected without requeue so
// the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WithError(err).Warnf("booking-consumer: failed to dial broker; retrying in %s", backoff)
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.WithError(err).Warn("booking-consumer: consume loop ended; reconnecting")
		if !sleepCtx(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.WithError(err).Warn("booking-consumer: set QoS failed")
	}

	confirmed, err := c.subscribe(ch, BookingConfirmedQueue)
	if err != nil {
		return err
	}
	expired, err := c.subscribe(ch, HoldExpiredQueue)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-confirmed:
			if !ok {
				return errors.New("booking.confirmed deliveries closed")
			}
			c.deliver(BookingConfirmedQueue, d)
		case d, ok := <-expired:
			if !ok {
				return errors.New("hold.expired deliveries closed")
			}
			c.deliver(HoldExpiredQueue, d)
		}
	}
}

func (c *Consumer) subscribe(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
	if err := declareQueue(ch, queue); err != nil {
		return nil, err
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("queue consume %s: %w", queue, err)
	}
	return msgs, nil
}

func (c *Consumer) deliver(queue string, d amqp.Delivery) {
	if err := c.handleMessage(queue, d.Body); err != nil {
		c.log.WithError(err).WithField("queue", queue).Error("booking-consumer: handle message failed")
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) handleMessage(queue string, body []byte) error {
	line, err := FormatLine(queue, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders a message body from queue as a single log line
// terminated by a newline.
func FormatLine(queue string, body []byte) (string, error) {
	switch queue {
	case BookingConfirmedQueue:
		var ev BookingConfirmedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Booking confirmed | booking_id=%s | episode_id=%s | seats=%s | total=%d\n",
			ev.ConfirmedAt, ev.BookingID, ev.EpisodeID, seatList(ev.SeatIDs), ev.TotalAmount), nil
	case HoldExpiredQueue:
		var ev HoldExpiredEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Hold expired | episode_id=%s | seats=%s\n",
			ev.ExpiredAt, ev.EpisodeID, seatList(ev.SeatIDs)), nil
	}
	return "", fmt.Errorf("unknown queue %q", queue)
}

func seatList(ids []string) string {
	return "[" + strings.Join(ids, ",") + "]"
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
