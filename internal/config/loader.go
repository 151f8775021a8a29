// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment keys, highest precedence.
const (
	EnvBaseURL          = "OVP_BASE_URL"
	EnvPartnerID        = "OVP_PARTNER_ID"
	EnvKS               = "OVP_KS"
	EnvUIConfID         = "OVP_UICONF_ID"
	EnvReferrer         = "OVP_REFERRER"
	EnvHTTPTimeout      = "OVP_HTTP_TIMEOUT"
	EnvHTTPRateLimit    = "OVP_HTTP_RATE_LIMIT"
	EnvHTTPRateBurst    = "OVP_HTTP_RATE_BURST"
	EnvHTTPUserAgent    = "OVP_HTTP_USER_AGENT"
	EnvBreakerThreshold = "OVP_BREAKER_THRESHOLD"
	EnvBreakerReset     = "OVP_BREAKER_RESET"
	EnvSessionCache     = "OVP_SESSION_CACHE"
	EnvSessionTTL       = "OVP_SESSION_TTL"
	EnvRedisAddr        = "OVP_REDIS_ADDR"
	EnvRedisPassword    = "OVP_REDIS_PASSWORD"
	EnvRedisDB          = "OVP_REDIS_DB"
	EnvListenAddr       = "OVP_LISTEN_ADDR"
	EnvAPIRateLimit     = "OVP_API_RATE_LIMIT"
	EnvTracingEnabled   = "OVP_TRACING_ENABLED"
	EnvTracingExporter  = "OVP_TRACING_EXPORTER"
	EnvTracingEndpoint  = "OVP_TRACING_ENDPOINT"
	EnvTracingSample    = "OVP_TRACING_SAMPLE_RATE"
	EnvLogLevel         = "LOG_LEVEL"
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader. An empty configPath skips the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, def string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, def)
}

func (l *Loader) envInt(key string, def int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, def)
}

func (l *Loader) envInt64(key string, def int64) int64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt64(key, def)
}

func (l *Loader) envFloat(key string, def float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, def)
}

func (l *Loader) envBool(key string, def bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, def)
}

func (l *Loader) envDuration(key string, def time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, def)
}

// Load applies defaults, then the YAML file (strict), then the environment,
// and validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg. Unknown fields are rejected.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.OVP.BaseURL = l.envString(EnvBaseURL, cfg.OVP.BaseURL)
	cfg.OVP.PartnerID = l.envInt64(EnvPartnerID, cfg.OVP.PartnerID)
	cfg.OVP.KS = l.envString(EnvKS, cfg.OVP.KS)
	cfg.OVP.UIConfID = l.envInt64(EnvUIConfID, cfg.OVP.UIConfID)
	cfg.OVP.Referrer = l.envString(EnvReferrer, cfg.OVP.Referrer)

	cfg.HTTP.Timeout = l.envDuration(EnvHTTPTimeout, cfg.HTTP.Timeout)
	cfg.HTTP.RateLimit = l.envFloat(EnvHTTPRateLimit, cfg.HTTP.RateLimit)
	cfg.HTTP.RateBurst = l.envInt(EnvHTTPRateBurst, cfg.HTTP.RateBurst)
	cfg.HTTP.UserAgent = l.envString(EnvHTTPUserAgent, cfg.HTTP.UserAgent)

	cfg.Breaker.Threshold = l.envInt(EnvBreakerThreshold, cfg.Breaker.Threshold)
	cfg.Breaker.Reset = l.envDuration(EnvBreakerReset, cfg.Breaker.Reset)

	cfg.Session.Cache = l.envString(EnvSessionCache, cfg.Session.Cache)
	cfg.Session.TTL = l.envDuration(EnvSessionTTL, cfg.Session.TTL)
	cfg.Session.Redis.Addr = l.envString(EnvRedisAddr, cfg.Session.Redis.Addr)
	cfg.Session.Redis.Password = l.envString(EnvRedisPassword, cfg.Session.Redis.Password)
	cfg.Session.Redis.DB = l.envInt(EnvRedisDB, cfg.Session.Redis.DB)

	cfg.Server.ListenAddr = l.envString(EnvListenAddr, cfg.Server.ListenAddr)
	cfg.Server.RateLimit = l.envInt(EnvAPIRateLimit, cfg.Server.RateLimit)

	cfg.Telemetry.Enabled = l.envBool(EnvTracingEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTracingExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvTracingEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SampleRate = l.envFloat(EnvTracingSample, cfg.Telemetry.SampleRate)

	cfg.Log.Level = l.envString(EnvLogLevel, cfg.Log.Level)
}

// ConsumedKeys returns the environment keys read by the last Load, sorted.
func (l *Loader) ConsumedKeys() []string {
	keys := make([]string, 0, len(l.ConsumedEnvKeys))
	for k := range l.ConsumedEnvKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
