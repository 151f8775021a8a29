// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package session obtains anonymous widget-session tokens (KS).
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/ovpmedia/internal/cache"
	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
	"github.com/ManuGH/ovpmedia/internal/ovp/request"
)

// ErrUnableToParse is returned when the reply carries no session token.
var ErrUnableToParse = errors.New("session: unable to parse widget session response")

// DefaultTTL bounds how long a cached token is reused.
const DefaultTTL = 10 * time.Minute

// Fetcher opens widget sessions. Concurrent requests for the same partner
// share one backend call, and tokens are cached for TTL.
type Fetcher struct {
	executor request.Executor
	cache    cache.TokenCache
	ttl      time.Duration
	group    singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithCache stores tokens in c. Without it nothing is cached.
func WithCache(c cache.TokenCache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithTTL sets the cache lifetime of a token.
func WithTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// NewFetcher creates a Fetcher sending through exec.
func NewFetcher(exec request.Executor, opts ...Option) *Fetcher {
	f := &Fetcher{
		executor: exec,
		cache:    cache.NewNoOpTokenCache(),
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get returns a widget-session token for partnerID at baseURL.
func (f *Fetcher) Get(ctx context.Context, baseURL string, partnerID int64) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		return "", fmt.Errorf("session: %w", request.ErrInvalidURL)
	}
	if partnerID <= 0 {
		return "", errors.New("session: partner id is required")
	}
	key := cacheKey(baseURL, partnerID)
	if ks, ok := f.cache.Get(ctx, key); ok {
		return ks, nil
	}

	// The shared call outlives any single caller; each caller stops waiting
	// on its own context.
	ch := f.group.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			fctx, cancel = context.WithDeadline(fctx, deadline)
			defer cancel()
		}
		ks, err := f.fetch(fctx, baseURL, partnerID)
		if err != nil {
			return "", err
		}
		f.cache.Set(fctx, key, ks, f.ttl)
		return ks, nil
	})
	logger := xglog.WithContext(ctx, xglog.WithComponent("ovp.session"))

	var (
		v      any
		err    error
		shared bool
	)
	select {
	case res := <-ch:
		v, err, shared = res.Val, res.Err, res.Shared
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "ovp.session.failed").
			Int64(xglog.FieldPartnerID, partnerID).
			Msg("widget session request failed")
		return "", err
	}
	ks := v.(string)
	logger.Debug().
		Str(xglog.FieldEvent, "ovp.session.opened").
		Int64(xglog.FieldPartnerID, partnerID).
		Str(xglog.FieldKS, xglog.MaskToken(ks)).
		Bool("shared", shared).
		Msg("widget session opened")
	return ks, nil
}

func (f *Fetcher) fetch(ctx context.Context, baseURL string, partnerID int64) (string, error) {
	done := make(chan request.Response, 1)
	req, err := request.StartWidgetSession(apiBaseURL(baseURL), partnerID).
		SetCompletion(func(r request.Response) { done <- r }).
		Build()
	if err != nil {
		return "", err
	}
	f.executor.Send(ctx, req)

	var resp request.Response
	select {
	case resp = <-done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if resp.Err != nil {
		return "", resp.Err
	}
	switch obj := model.ParseFirst(resp.Body).(type) {
	case *model.StartWidgetSessionResponse:
		if obj.KS == "" {
			return "", ErrUnableToParse
		}
		return obj.KS, nil
	case *model.APIError:
		return "", fmt.Errorf("%w: %w", ErrUnableToParse, obj)
	default:
		return "", ErrUnableToParse
	}
}

func apiBaseURL(baseURL string) string {
	if strings.HasSuffix(baseURL, "/") {
		return baseURL + "api_v3"
	}
	return baseURL + "/api_v3"
}

func cacheKey(baseURL string, partnerID int64) string {
	return strings.TrimRight(baseURL, "/") + "|" + strconv.FormatInt(partnerID, 10)
}
