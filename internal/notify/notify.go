// Package notify delivers outbound mail: straight over SMTP, through a
// RabbitMQ queue drained by a mail worker, or to the log during development.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"swag-shop/internal/domain"
)

// ErrNotification wraps every delivery failure.
var ErrNotification = errors.New("notification failed")

func sendErr(to string, err error) error {
	return fmt.Errorf("%w: to %s: %w", ErrNotification, to, err)
}

type Options struct {
	Driver string // log | smtp | amqp | none
	From   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPTimeout  time.Duration

	AMQPURL   string
	AMQPQueue string
}

// New returns the configured Mailer, or nil for driver "none".
func New(o Options, l *zap.Logger) (domain.Mailer, error) {
	switch o.Driver {
	case "none":
		return nil, nil
	case "", "log":
		return &LogMailer{Log: l, From: o.From}, nil
	case "smtp":
		if o.SMTPHost == "" {
			return nil, errors.New("mail.smtp.host is required")
		}
		return &SMTPMailer{
			Host:     o.SMTPHost,
			Port:     o.SMTPPort,
			Username: o.SMTPUsername,
			Password: o.SMTPPassword,
			From:     o.From,
			Timeout:  o.SMTPTimeout,
		}, nil
	case "amqp":
		return &AMQPMailer{URL: o.AMQPURL, Queue: o.AMQPQueue, From: o.From}, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", o.Driver)
	}
}

// LogMailer records that a message would have been sent. Bodies carry
// temporary passwords, so only the envelope and body size are logged.
type LogMailer struct {
	Log  *zap.Logger
	From string
}

func (m *LogMailer) Send(ctx context.Context, msg domain.Message) error {
	m.Log.Info("mail",
		zap.String("from", m.From),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)),
	)
	return nil
}
