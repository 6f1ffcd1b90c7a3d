package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"swag-shop/internal/domain"
)

// RedisStore keeps the whole snapshot as one JSON string under Key.
// A single SET is atomic, which gives the all-or-nothing write for free.
type RedisStore struct {
	RDB *redis.Client
	Key string
}

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{RDB: rdb, Key: key}
}

func (r *RedisStore) Read(ctx context.Context) (*domain.Snapshot, error) {
	b, err := r.RDB.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return normalize(nil), nil
	}
	if err != nil {
		return nil, ioErr("redis get "+r.Key, err)
	}
	var s domain.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, ioErr("decode "+r.Key, err)
	}
	return normalize(&s), nil
}

func (r *RedisStore) Write(ctx context.Context, s *domain.Snapshot) error {
	b, err := json.Marshal(normalize(s))
	if err != nil {
		return ioErr("encode", err)
	}
	if err := r.RDB.Set(ctx, r.Key, b, 0).Err(); err != nil {
		return ioErr("redis set "+r.Key, err)
	}
	return nil
}
