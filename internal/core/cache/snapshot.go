package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"swag-shop/internal/domain"
)

const snapshotKey = "snapshot"

// DefaultLoadTimeout bounds a shared load, which no single caller owns.
const DefaultLoadTimeout = 30 * time.Second

// SnapshotReader merges concurrent reads of the record store into one load.
// Each caller receives its own deep copy.
type SnapshotReader struct {
	load        func(ctx context.Context) (*domain.Snapshot, error)
	sf          singleflight.Group
	LoadTimeout time.Duration
}

func NewSnapshotReader(load func(ctx context.Context) (*domain.Snapshot, error)) *SnapshotReader {
	return &SnapshotReader{load: load, LoadTimeout: DefaultLoadTimeout}
}

// Read joins the in-flight load or starts one. The load runs detached from
// ctx so one caller giving up does not fail the others; ctx only bounds how
// long this caller waits.
func (r *SnapshotReader) Read(ctx context.Context) (*domain.Snapshot, error) {
	ch := r.sf.DoChan(snapshotKey, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.LoadTimeout)
		defer cancel()
		return r.load(lctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Snapshot).Clone(), nil
	}
}
