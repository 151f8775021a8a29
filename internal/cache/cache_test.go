// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMemoryTokenCache_SetGet(t *testing.T) {
	c := NewMemoryTokenCache(0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	c.Set(ctx, "partner:1", "ks-one", time.Minute)
	tok, ok := c.Get(ctx, "partner:1")
	require.True(t, ok)
	assert.Equal(t, "ks-one", tok)

	_, ok = c.Get(ctx, "partner:2")
	assert.False(t, ok)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 1, stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryTokenCache_Expiry(t *testing.T) {
	c := NewMemoryTokenCache(0)
	defer func() { _ = c.Close() }()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "k", "v", 10*time.Second)
	now = now.Add(11 * time.Second)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	assert.Equal(t, 1, c.deleteExpired())
	assert.EqualValues(t, 1, c.Stats().Evictions)
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestMemoryTokenCache_Delete(t *testing.T) {
	c := NewMemoryTokenCache(0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)
	c.Delete(ctx, "k")
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryTokenCache_JanitorStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := NewMemoryTokenCache(5 * time.Millisecond)
	c.Set(context.Background(), "k", "v", time.Millisecond)
	assert.Eventually(t, func() bool { return c.Stats().CurrentSize == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")
}

func TestNoOpTokenCache(t *testing.T) {
	c := NewNoOpTokenCache()
	c.Set(context.Background(), "k", "v", time.Minute)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
	assert.NoError(t, c.Close())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryTokenCache{}, c)
	require.NoError(t, c.Close())

	c, err = New(ctx, Config{Backend: "none"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, noOpTokenCache{}, c)

	_, err = New(ctx, Config{Backend: "memcached"}, zerolog.Nop())
	assert.Error(t, err)
}
