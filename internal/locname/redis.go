// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package locname

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/estatehub/placename/internal/logger"
)

const (
	DefaultKeyPrefix = "placename:"

	scanBatchSize = 100
	pingTimeout   = 5 * time.Second
)

// RedisStore is a Store backed by Redis, shared by every process using the same key prefix.
// Entries are written with the freshness window as key TTL so that Redis takes care of
// expiry and stale entries are never returned.
type RedisStore struct {
	client *redis.Client
	logger *logger.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a RedisStore using an existing client.
func NewRedisStore(client *redis.Client, log *logger.Logger, ttl time.Duration, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{
		client: client,
		logger: log,
		prefix: prefix,
		ttl:    ttl,
	}
}

// NewRedisStoreFromURL connects to the Redis server at url and verifies the connection.
func NewRedisStoreFromURL(ctx context.Context, url string, log *logger.Logger, ttl time.Duration, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStore(client, log, ttl, prefix), nil
}

// Get returns the cached name. Redis errors are logged and reported as a cache miss.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	name, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		r.logger.Warn("failed to read place name from redis", logger.Err(err), slog.String("key", key))
		return "", false
	}
	return name, true
}

func (r *RedisStore) Set(ctx context.Context, key, name string) error {
	if err := r.client.Set(ctx, r.prefix+key, name, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store place name in redis: %w", err)
	}
	return nil
}

// EvictExpired is a no-op, Redis expires keys on its own.
func (r *RedisStore) EvictExpired(context.Context) int {
	return 0
}

// Clear deletes all keys with the store's prefix.
func (r *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan redis keys: %w", err)
		}
		if len(keys) > 0 {
			if err = r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete redis keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = (*RedisStore)(nil)
