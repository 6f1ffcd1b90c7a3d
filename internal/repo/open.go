package repo

import (
	"fmt"

	"go.uber.org/zap"

	"swag-shop/internal/core/database"
	"swag-shop/internal/domain"
)

type Options struct {
	Driver string // file | memory | redis | mysql | postgres
	Path   string
	Key    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DB          database.Opts
	AutoMigrate bool
}

// Open builds the configured SnapshotStore. The returned func releases
// any connection it holds.
func Open(o Options, l *zap.Logger) (domain.SnapshotStore, func(), error) {
	noop := func() {}
	switch o.Driver {
	case "", "file":
		l.Info("snapshot store", zap.String("driver", "file"), zap.String("path", o.Path))
		return NewFileStore(o.Path), noop, nil
	case "memory":
		l.Warn("snapshot store is in-memory; data is lost on exit")
		return NewMemoryStore(nil), noop, nil
	case "redis":
		rdb := NewRedisClient(o.RedisAddr, o.RedisPassword, o.RedisDB)
		l.Info("snapshot store", zap.String("driver", "redis"), zap.String("addr", o.RedisAddr), zap.String("key", o.Key))
		return NewRedisStore(rdb, o.Key), func() { _ = rdb.Close() }, nil
	case "mysql", "postgres":
		opts := o.DB
		opts.Driver = o.Driver
		db, err := database.NewGorm(opts)
		if err != nil {
			return nil, noop, fmt.Errorf("open %s: %w", o.Driver, err)
		}
		gs := NewGormStore(db)
		if o.AutoMigrate {
			if err := gs.AutoMigrate(); err != nil {
				return nil, noop, fmt.Errorf("automigrate: %w", err)
			}
			l.Info("automigrate done")
		}
		closer := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		l.Info("snapshot store", zap.String("driver", o.Driver))
		return gs, closer, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", o.Driver)
	}
}
