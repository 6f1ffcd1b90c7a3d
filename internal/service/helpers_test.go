package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"swag-shop/internal/domain"
	"swag-shop/internal/notify"
	"swag-shop/internal/repo"
	"swag-shop/pkg/utils"
)

var testHasher = utils.BcryptHasher{Cost: bcrypt.MinCost}

func intp(v int) *int { return &v }

func newTx(seed *domain.Snapshot) *repo.Locked {
	return repo.NewLocked(repo.NewMemoryStore(seed))
}

func snapshotOf(t *testing.T, tx SnapshotTx) *domain.Snapshot {
	t.Helper()
	var out *domain.Snapshot
	require.NoError(t, tx.View(context.Background(), func(s *domain.Snapshot) error {
		out = s
		return nil
	}))
	return out
}

func mustUser(t *testing.T, username, email, password string) domain.User {
	t.Helper()
	h, err := testHasher.Hash(password)
	require.NoError(t, err)
	return domain.User{Username: username, Email: email, PasswordHash: h, Role: domain.RoleUser, Orders: []domain.OrderRecord{}}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.Message
	fail error
}

func (m *recordingMailer) Send(ctx context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return errors.Join(notify.ErrNotification, m.fail)
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Message(nil), m.sent...)
}

type fixedTemp string

func (f fixedTemp) Generate() (string, error) { return string(f), nil }

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

var nopLog = zap.NewNop()
