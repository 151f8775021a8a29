// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the process configuration with precedence
// ENV > YAML file > defaults.
package config

import "time"

// AppConfig is the complete process configuration.
type AppConfig struct {
	OVP       OVPConfig       `yaml:"ovp"`
	HTTP      HTTPConfig      `yaml:"http"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	Session   SessionConfig   `yaml:"session"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`

	Version string `yaml:"-"`
}

// OVPConfig addresses the backend and the partner account.
type OVPConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	PartnerID int64  `yaml:"partnerId"`
	KS        string `yaml:"ks"`
	UIConfID  int64  `yaml:"uiConfId"`
	Referrer  string `yaml:"referrer"`
}

// HTTPConfig tunes the outbound executor.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rateLimit"` // requests per second
	RateBurst int           `yaml:"rateBurst"`
	UserAgent string        `yaml:"userAgent"`
}

// BreakerConfig tunes the upstream circuit breaker.
type BreakerConfig struct {
	Threshold int           `yaml:"threshold"`
	Reset     time.Duration `yaml:"reset"`
}

// SessionConfig controls widget-session token caching.
type SessionConfig struct {
	Cache string        `yaml:"cache"` // memory|redis|none
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig is used when Session.Cache is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	RateLimit  int    `yaml:"rateLimit"` // requests per minute per client IP, 0 disables
}

// TelemetryConfig configures tracing export.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Exporter   string  `yaml:"exporter"` // grpc|http
	Endpoint   string  `yaml:"endpoint"`
	SampleRate float64 `yaml:"sampleRate"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() AppConfig {
	return AppConfig{
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			RateLimit: 10,
			RateBurst: 20,
			UserAgent: "ovpmedia",
		},
		Breaker: BreakerConfig{
			Threshold: 3,
			Reset:     30 * time.Second,
		},
		Session: SessionConfig{
			Cache: "memory",
			TTL:   10 * time.Minute,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
			RateLimit:  120,
		},
		Telemetry: TelemetryConfig{
			Exporter:   "grpc",
			Endpoint:   "localhost:4317",
			SampleRate: 1.0,
		},
		Log: LogConfig{Level: "info"},
	}
}

// String renders the config with secrets masked.
func (c AppConfig) String() string {
	masked := c
	masked.OVP.KS = maskSecret(c.OVP.KS)
	masked.Session.Redis.Password = maskSecret(c.Session.Redis.Password)
	return masked.render()
}
