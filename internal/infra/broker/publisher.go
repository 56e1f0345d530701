// Package broker publishes direct-message jobs to the RabbitMQ queue
// consumed by the chat-bot service. Delivery is best effort: errors are
// logged and returned so callers can ignore them without interrupting the
// main flow.
package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cowork-booking/internal/pkg/config"
	"cowork-booking/internal/pkg/errs"
	"cowork-booking/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

// directMessage is the wire shape the bot consumer expects.
type directMessage struct {
	UserID  int64             `json:"user_id"`
	Text    string            `json:"text"`
	Actions []commands.Action `json:"actions,omitempty"`
}

type Publisher struct {
	cfg config.BrokerConfig
}

func NewPublisher(cfg config.BrokerConfig) *Publisher {
	return &Publisher{cfg: cfg}
}

// Send publishes one direct message. A connection is dialed per publish:
// notification volume is low and a dead broker then never poisons long-lived
// state.
func (p *Publisher) Send(ctx context.Context, userID int64, text string, actions ...commands.Action) error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		slog.Warn("broker dial failed", "error", err.Error())
		return errs.Wrap(err, "broker dial failed")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		slog.Warn("broker channel open failed", "error", err.Error())
		return errs.Wrap(err, "broker channel open failed")
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		slog.Warn("broker queue declare failed", "queue", p.cfg.Queue, "error", err.Error())
		return errs.Wrap(err, "broker queue declare failed")
	}

	body, err := json.Marshal(directMessage{UserID: userID, Text: text, Actions: actions})
	if err != nil {
		return errs.Wrap(err, "failed to marshal direct message")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
		slog.Warn("broker publish failed", "queue", p.cfg.Queue, "error", err.Error())
		return errs.Wrap(err, "broker publish failed")
	}
	return nil
}
