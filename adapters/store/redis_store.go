package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the Store interface
type RedisStore struct {
	client *redis.Client
	prefix string
}

const invalidatedPrefix = "invalidated:"

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client) ports.Store {
	return &RedisStore{
		client: client,
		prefix: "nearstore:",
	}
}

// Get retrieves a value by key
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrKeyNotFound
		}
		return "", fmt.Errorf("%w: get %s: %v", core.ErrStoreOperationFailed, key, err)
	}
	return value, nil
}

// Set stores a key with a value, without expiry
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", core.ErrStoreOperationFailed, key, err)
	}
	return nil
}

// Delete removes a key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %v", core.ErrStoreOperationFailed, key, err)
	}
	return nil
}

// InvalidateToken marks a token as invalidated in Redis. SETNX makes the
// first caller win.
func (s *RedisStore) InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) (bool, error) {
	key := s.prefix + invalidatedPrefix + tokenID

	ok, err := s.client.SetNX(ctx, key, "1", expiry).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to invalidate token: %v", core.ErrStoreOperationFailed, err)
	}
	return ok, nil
}
