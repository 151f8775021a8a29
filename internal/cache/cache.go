// SPDX-License-Identifier: MIT

// Package cache stores short-lived session tokens with TTL support.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// TokenCache is a thread-safe token store with expiration.
type TokenCache interface {
	// Get returns the token for key; false when missing or expired.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores a token for ttl.
	Set(ctx context.Context, key, token string, ttl time.Duration)
	// Delete removes a token.
	Delete(ctx context.Context, key string)
	// Stats returns cache statistics.
	Stats() Stats
	// Close releases background resources.
	Close() error
}

// Stats holds cache performance metrics.
type Stats struct {
	Hits        int64 // successful Get operations
	Misses      int64 // Get operations that found nothing usable
	Sets        int64
	Evictions   int64 // expired entries removed by the janitor
	CurrentSize int
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend         string
	CleanupInterval time.Duration // memory only
	Redis           RedisConfig
}

// New builds the configured backend. An empty backend means memory.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (TokenCache, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		interval := cfg.CleanupInterval
		if interval <= 0 {
			interval = time.Minute
		}
		return NewMemoryTokenCache(interval), nil
	case BackendRedis:
		return NewRedisTokenCache(ctx, cfg.Redis, logger)
	case BackendNone:
		return NewNoOpTokenCache(), nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}

type entry struct {
	token      string
	expiration time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return now.After(e.expiration)
}

// MemoryTokenCache is an in-process TokenCache.
type MemoryTokenCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time

	hits, misses, sets, evictions atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryTokenCache creates an in-memory cache. A positive cleanupInterval
// starts a janitor goroutine that drops expired entries; Close stops it.
func NewMemoryTokenCache(cleanupInterval time.Duration) *MemoryTokenCache {
	c := &MemoryTokenCache{
		entries: make(map[string]*entry),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	} else {
		close(c.done)
	}
	return c
}

func (c *MemoryTokenCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || e.isExpired(c.now()) {
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return e.token, true
}

func (c *MemoryTokenCache) Set(_ context.Context, key, token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{token: token, expiration: c.now().Add(ttl)}
	c.sets.Add(1)
}

func (c *MemoryTokenCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryTokenCache) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

// Close stops the janitor and waits for it to exit.
func (c *MemoryTokenCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}

// deleteExpired removes expired entries and returns how many were removed.
func (c *MemoryTokenCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, e := range c.entries {
		if e.isExpired(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.evictions.Add(int64(count))
	return count
}

func (c *MemoryTokenCache) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

type noOpTokenCache struct{}

// NewNoOpTokenCache returns a cache that never stores anything.
func NewNoOpTokenCache() TokenCache { return noOpTokenCache{} }

func (noOpTokenCache) Get(context.Context, string) (string, bool)         { return "", false }
func (noOpTokenCache) Set(context.Context, string, string, time.Duration) {}
func (noOpTokenCache) Delete(context.Context, string)                     {}
func (noOpTokenCache) Stats() Stats                                       { return Stats{} }
func (noOpTokenCache) Close() error                                       { return nil }
