package domain

import "context"

// PasswordHasher hashes primary and temporary passwords alike.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer delivers outbound notifications. Failures are returned, not retried.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}
