package repo

import (
	"context"

	"golang.org/x/sync/semaphore"

	"swag-shop/internal/core/cache"
	"swag-shop/internal/domain"
)

// maxReaders caps concurrent View calls; a writer takes all slots.
const maxReaders = 1 << 20

// Locked serializes every read-modify-write cycle against a SnapshotStore.
// One writer at a time; readers share a consistent snapshot and never
// overlap a write. Waiting for the lock gives up when ctx is done.
type Locked struct {
	store  domain.SnapshotStore
	sem    *semaphore.Weighted
	reader *cache.SnapshotReader
}

func NewLocked(store domain.SnapshotStore) *Locked {
	return &Locked{
		store:  store,
		sem:    semaphore.NewWeighted(maxReaders),
		reader: cache.NewSnapshotReader(store.Read),
	}
}

// View hands fn a private copy of the current snapshot. Changes fn makes
// are discarded.
func (l *Locked) View(ctx context.Context, fn func(s *domain.Snapshot) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	s, err := l.reader.Read(ctx)
	if err != nil {
		return err
	}
	return fn(s)
}

// Update reads the snapshot, lets fn mutate it and writes it back. If fn
// returns an error nothing is written. Once fn succeeds the write runs to
// completion even if ctx is cancelled.
func (l *Locked) Update(ctx context.Context, fn func(s *domain.Snapshot) error) error {
	if err := l.sem.Acquire(ctx, maxReaders); err != nil {
		return err
	}
	defer l.sem.Release(maxReaders)
	s, err := l.store.Read(ctx)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return l.store.Write(context.WithoutCancel(ctx), s)
}
