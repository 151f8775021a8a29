// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves resolved media entries over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/ovpmedia/internal/health"
	"github.com/ManuGH/ovpmedia/internal/ovp/provider"
	"github.com/ManuGH/ovpmedia/internal/ovp/session"
)

// Options configures the API server.
type Options struct {
	// Provider is the template for every load. Its entry id is replaced per request.
	Provider provider.Config
	// Sessions, when set, supplies a cached widget-session token for loads
	// whose template carries no KS.
	Sessions *session.Fetcher
	// RateLimit is the per-client request budget per minute. Zero disables it.
	RateLimit int
	// TracingService names the server spans. Empty disables HTTP tracing.
	TracingService string
	// Health serves /healthz and /readyz. Nil means no component checks.
	Health  *health.Manager
	Version string
}

// Server owns the router and the per-request provider template.
type Server struct {
	base     provider.Config
	sessions *session.Fetcher
	health   *health.Manager
	router   chi.Router
}

// New builds a Server with its middleware stack and routes.
func New(opts Options) *Server {
	s := &Server{
		base:     opts.Provider,
		sessions: opts.Sessions,
		health:   opts.Health,
	}
	if s.health == nil {
		s.health = health.NewManager(opts.Version)
	}

	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(Metrics)
	if opts.TracingService != "" {
		r.Use(Tracing(opts.TracingService))
	}
	r.Use(Logging)

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(RateLimit(opts.RateLimit, time.Minute))
		}
		r.Get("/entries/{entryID}", s.handleEntry)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }
