// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"testing"
	"time"

	"github.com/ManuGH/ovpmedia/internal/cache"
)

func newMemoryCache(t *testing.T) cache.TokenCache {
	t.Helper()
	c := cache.NewMemoryTokenCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}
