// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/ManuGH/ovpmedia/internal/cache"
	"github.com/ManuGH/ovpmedia/internal/config"
	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/ovp/provider"
	"github.com/ManuGH/ovpmedia/internal/ovp/request"
	"github.com/ManuGH/ovpmedia/internal/ovp/session"
	"github.com/ManuGH/ovpmedia/internal/telemetry"
)

func newExecutor(cfg config.AppConfig) *request.HTTPExecutor {
	return request.NewHTTPExecutor(request.Options{
		Timeout:          cfg.HTTP.Timeout,
		RateLimit:        rate.Limit(cfg.HTTP.RateLimit),
		RateLimitBurst:   cfg.HTTP.RateBurst,
		UserAgent:        cfg.HTTP.UserAgent,
		BreakerThreshold: cfg.Breaker.Threshold,
		BreakerReset:     cfg.Breaker.Reset,
	})
}

func newProviderConfig(cfg config.AppConfig, exec request.Executor) provider.Config {
	return provider.NewConfigBuilder().
		SetBaseURL(cfg.OVP.BaseURL).
		SetPartnerID(cfg.OVP.PartnerID).
		SetKS(cfg.OVP.KS).
		SetUIConfID(cfg.OVP.UIConfID).
		SetReferrer(cfg.OVP.Referrer).
		SetExecutor(exec).
		Build()
}

// newSessions builds a fetcher over the configured token cache. The caller
// closes the returned cache.
func newSessions(ctx context.Context, cfg config.AppConfig, exec request.Executor) (*session.Fetcher, cache.TokenCache, error) {
	tc, err := cache.New(ctx, cache.Config{
		Backend: cfg.Session.Cache,
		Redis: cache.RedisConfig{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		},
	}, xglog.WithComponent("cache"))
	if err != nil {
		return nil, nil, err
	}
	return session.NewFetcher(exec, session.WithCache(tc), session.WithTTL(cfg.Session.TTL)), tc, nil
}

func newTelemetry(ctx context.Context, cfg config.AppConfig) (*telemetry.Provider, error) {
	return telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "ovpmedia",
		ServiceVersion: version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SampleRate,
	})
}
