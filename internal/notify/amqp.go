package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"swag-shop/internal/domain"
)

// OutboundMail is the payload published for the mail worker.
type OutboundMail struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	QueuedAt time.Time `json:"queued_at"`
}

// AMQPMailer publishes each message to a durable queue. A publish counts as
// a successful send; delivery is up to the consumer.
type AMQPMailer struct {
	URL   string
	Queue string
	From  string
}

func (m *AMQPMailer) Send(ctx context.Context, msg domain.Message) error {
	conn, err := amqp.Dial(m.URL)
	if err != nil {
		return sendErr(msg.To, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return sendErr(msg.To, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(m.Queue, true, false, false, false, nil); err != nil {
		return sendErr(msg.To, err)
	}

	body, err := json.Marshal(m.envelope(msg, time.Now().UTC()))
	if err != nil {
		return sendErr(msg.To, err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", m.Queue, false, false, pub); err != nil {
		return sendErr(msg.To, err)
	}
	return nil
}

func (m *AMQPMailer) envelope(msg domain.Message, at time.Time) OutboundMail {
	return OutboundMail{From: m.From, To: msg.To, Subject: msg.Subject, Body: msg.Body, QueuedAt: at}
}
