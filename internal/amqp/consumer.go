package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ReportExportedHandler processes one report export notification.
type ReportExportedHandler func(ctx context.Context, msg *ReportExportedMessage) error

// ErrPermanent wraps handler errors that must not be retried. Such
// messages are rejected without requeue.
var ErrPermanent = errors.New("permanent failure")

type disposition int

const (
	ack disposition = iota
	requeue
	drop
)

// ConsumeReportExported delivers queued notifications to handler until ctx
// ends or the broker closes the channel. Acknowledgement is manual.
func (c *Client) ConsumeReportExported(ctx context.Context, handler ReportExportedHandler) error {
	ch, err := c.activeChannel(ctx)
	if err != nil {
		return fmt.Errorf("get channel: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx,
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming report exported messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			switch handleDelivery(ctx, delivery.Body, handler) {
			case ack:
				_ = delivery.Ack(false)
			case requeue:
				_ = delivery.Nack(false, true)
			case drop:
				_ = delivery.Nack(false, false)
			}
		}
	}
}

func handleDelivery(ctx context.Context, body []byte, handler ReportExportedHandler) disposition {
	msg, err := ReportExportedMessageFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
		return drop
	}
	if msg.ExportID == "" {
		slog.ErrorContext(ctx, "Message without export id")
		return drop
	}

	if err := handler(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to handle message",
			"error", err,
			"export_id", msg.ExportID)
		if errors.Is(err, ErrPermanent) {
			return drop
		}
		return requeue
	}

	slog.InfoContext(ctx, "Processed report exported message", "export_id", msg.ExportID)
	return ack
}
