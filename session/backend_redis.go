package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend persists the session document under a namespaced redis key.
// Used by headless deployments (wallboards, simulators) that keep client
// state out of the local filesystem.
type RedisBackend struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisBackend stores the session under prefix+[StorageKey]. A zero ttl
// keeps the document until an explicit Delete.
func NewRedisBackend(client *redis.Client, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = "roadauth:"
	}
	return &RedisBackend{
		client: client,
		key:    prefix + StorageKey,
		ttl:    ttl,
	}
}

func (b *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *RedisBackend) Save(ctx context.Context, data []byte) error {
	return b.client.Set(ctx, b.key, data, b.ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context) error {
	return b.client.Del(ctx, b.key).Err()
}
