// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/ovpmedia/internal/log"
)

// isSensitive reports keys whose values must never be logged.
func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "password") ||
		strings.Contains(lower, "token") ||
		strings.HasSuffix(lower, "_ks")
}

// lookup returns the raw value and whether it should be used. Empty values
// fall back to the default.
func lookup(logger zerolog.Logger, key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		logger.Debug().Str("key", key).Str("source", "default").Msg("using default value")
		return "", false
	}
	if v == "" {
		logger.Debug().Str("key", key).Str("source", "default").Msg("using default value (environment variable is empty)")
		return "", false
	}
	return v, true
}

func logEnv(logger zerolog.Logger, key string, value any) {
	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitive(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Interface("value", value)
	}
	ev.Msg("using environment variable")
}

func invalid(logger zerolog.Logger, key, raw, kind string, def any) {
	ev := logger.Warn().Str("key", key).Interface("default", def)
	if !isSensitive(key) {
		ev = ev.Str("value", raw)
	}
	ev.Msgf("invalid %s in environment variable, using default", kind)
}

// ParseString reads a string from the environment or returns the default.
func ParseString(key, defaultValue string) string {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key)
	if !ok {
		return defaultValue
	}
	logEnv(logger, key, v)
	return v
}

// ParseInt reads an integer, falling back to the default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		invalid(logger, key, v, "integer", defaultValue)
		return defaultValue
	}
	logEnv(logger, key, i)
	return i
}

// ParseInt64 reads a 64-bit integer, falling back to the default on parse errors.
func ParseInt64(key string, defaultValue int64) int64 {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		invalid(logger, key, v, "integer", defaultValue)
		return defaultValue
	}
	logEnv(logger, key, i)
	return i
}

// ParseFloat reads a float, falling back to the default on parse errors.
func ParseFloat(key string, defaultValue float64) float64 {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		invalid(logger, key, v, "number", defaultValue)
		return defaultValue
	}
	logEnv(logger, key, f)
	return f
}

// ParseDuration reads a Go duration ("5s"), falling back to the default on
// parse errors.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		invalid(logger, key, v, "duration", defaultValue)
		return defaultValue
	}
	logEnv(logger, key, d.String())
	return d
}

// ParseBool accepts true/false, 1/0 and yes/no (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		logEnv(logger, key, true)
		return true
	case "false", "0", "no":
		logEnv(logger, key, false)
		return false
	default:
		invalid(logger, key, v, "boolean", defaultValue)
		return defaultValue
	}
}
