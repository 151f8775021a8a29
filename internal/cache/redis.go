// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultKeyPrefix namespaces token keys in a shared Redis database.
const DefaultKeyPrefix = "ovpmedia:ks:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string // host:port
	Password  string // optional
	DB        int
	KeyPrefix string // defaults to DefaultKeyPrefix
}

// RedisTokenCache shares session tokens between processes.
type RedisTokenCache struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger

	hits, misses, sets atomic.Int64
}

// NewRedisTokenCache connects and pings the server.
func NewRedisTokenCache(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisTokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis token cache")
	return newRedisTokenCache(client, cfg.KeyPrefix, logger), nil
}

func newRedisTokenCache(client *redis.Client, prefix string, logger zerolog.Logger) *RedisTokenCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisTokenCache{client: client, prefix: prefix, logger: logger}
}

func (c *RedisTokenCache) key(k string) string { return c.prefix + k }

func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return "", false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return val, true
}

func (c *RedisTokenCache) Set(ctx context.Context, key, token string, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, c.key(key), token, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
		return
	}
	c.sets.Add(1)
}

func (c *RedisTokenCache) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis delete failed")
	}
}

// Stats reports counters of this process; CurrentSize counts prefixed keys.
func (c *RedisTokenCache) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	size := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		size++
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("redis scan failed")
	}
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		CurrentSize: size,
	}
}

// Ping checks that the server is reachable.
func (c *RedisTokenCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisTokenCache) Close() error {
	return c.client.Close()
}
