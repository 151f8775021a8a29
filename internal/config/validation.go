// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Validate checks cross-field consistency. The backend address itself is
// optional here; commands that need it check it at use.
func Validate(cfg AppConfig) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if cfg.OVP.BaseURL != "" {
		u, err := url.Parse(cfg.OVP.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("ovp.baseUrl must be an absolute http(s) URL, got %q", cfg.OVP.BaseURL)
		}
	}
	if cfg.OVP.PartnerID < 0 {
		add("ovp.partnerId must not be negative")
	}
	if cfg.OVP.UIConfID < 0 {
		add("ovp.uiConfId must not be negative")
	}
	if cfg.HTTP.Timeout <= 0 {
		add("http.timeout must be positive")
	}
	if cfg.HTTP.RateLimit < 0 {
		add("http.rateLimit must not be negative")
	}
	if cfg.HTTP.RateBurst < 0 {
		add("http.rateBurst must not be negative")
	}
	if cfg.Breaker.Threshold <= 0 {
		add("breaker.threshold must be positive")
	}
	if cfg.Breaker.Reset <= 0 {
		add("breaker.reset must be positive")
	}

	switch strings.ToLower(cfg.Session.Cache) {
	case "memory", "none":
	case "redis":
		if cfg.Session.Redis.Addr == "" {
			add("session.redis.addr is required when session.cache is redis")
		}
	default:
		add("session.cache must be memory, redis or none, got %q", cfg.Session.Cache)
	}
	if cfg.Session.TTL <= 0 {
		add("session.ttl must be positive")
	}

	if cfg.Server.RateLimit < 0 {
		add("server.rateLimit must not be negative")
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			add("telemetry.exporter must be grpc or http, got %q", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			add("telemetry.endpoint is required when tracing is enabled")
		}
	}
	if cfg.Telemetry.SampleRate < 0 || cfg.Telemetry.SampleRate > 1 {
		add("telemetry.sampleRate must be within [0,1]")
	}

	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			add("log.level %q: %v", cfg.Log.Level, err)
		}
	}
	return errors.Join(errs...)
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func (c AppConfig) render() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(out)
}
