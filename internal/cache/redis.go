package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small read-through cache for hot lookups. Get returns ErrMiss for
// absent keys so callers can distinguish a miss from a backend failure.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ErrMiss indicates the key is not cached.
var ErrMiss = errors.New("cache miss")

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis connects a Redis-backed cache. Keys are namespaced with the given
// prefix.
func NewRedis(addr, prefix string) Cache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *redisCache) key(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}
