package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swag-shop/internal/domain"
)

func TestSnapshotReader_CoalescesConcurrentLoads(t *testing.T) {
	var loads int32
	release := make(chan struct{})
	r := NewSnapshotReader(func(ctx context.Context) (*domain.Snapshot, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return &domain.Snapshot{Swags: []domain.Swag{{ID: 1, Quantity: 5}}}, nil
	})

	const n = 8
	var wg sync.WaitGroup
	results := make([]*domain.Snapshot, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Read(context.Background())
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&loads), int32(n))
	// copies are independent
	results[0].Swags[0].Quantity = 99
	for _, s := range results[1:] {
		require.NotNil(t, s)
		assert.Equal(t, 5, s.Swags[0].Quantity)
	}
}

func TestSnapshotReader_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	r := NewSnapshotReader(func(ctx context.Context) (*domain.Snapshot, error) { return nil, boom })
	_, err := r.Read(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSnapshotReader_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	r := NewSnapshotReader(func(ctx context.Context) (*domain.Snapshot, error) {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &domain.Snapshot{Swags: []domain.Swag{{ID: 1}}}, nil
	})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Read(firstCtx)
		firstErr <- err
	}()
	<-started

	second := make(chan *domain.Snapshot, 1)
	go func() {
		s, err := r.Read(context.Background())
		assert.NoError(t, err)
		second <- s
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	s := <-second
	require.NotNil(t, s)
	assert.Len(t, s.Swags, 1)
}

func TestSnapshotReader_LoadTimeout(t *testing.T) {
	r := NewSnapshotReader(func(ctx context.Context) (*domain.Snapshot, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	r.LoadTimeout = 20 * time.Millisecond
	_, err := r.Read(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
