package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores each key as a plain Redis string under "<prefix>:<key>".
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis wraps an already connected client. An empty prefix stores keys
// unchanged.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

var _ Store = (*Redis)(nil)

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

// Get reads key; redis.Nil means absent.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, Wrap("get", key, err)
	}
	return v, true, nil
}

// Set writes key with no expiry.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return Wrap("set", key, r.rdb.Set(ctx, r.key(key), value, 0).Err())
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return Wrap("delete", key, r.rdb.Del(ctx, r.key(key)).Err())
}
