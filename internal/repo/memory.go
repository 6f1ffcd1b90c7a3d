package repo

import (
	"context"
	"sync"

	"swag-shop/internal/domain"
)

// MemoryStore keeps the snapshot in process. Used by tests and the
// "memory" store driver.
type MemoryStore struct {
	mu   sync.Mutex
	snap *domain.Snapshot
}

func NewMemoryStore(seed *domain.Snapshot) *MemoryStore {
	return &MemoryStore{snap: normalize(seed.Clone())}
}

func (m *MemoryStore) Read(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), nil
}

func (m *MemoryStore) Write(ctx context.Context, s *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = normalize(s.Clone())
	return nil
}
