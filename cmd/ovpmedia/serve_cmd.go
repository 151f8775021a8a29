// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/ovpmedia/internal/api"
	"github.com/ManuGH/ovpmedia/internal/health"
	xglog "github.com/ManuGH/ovpmedia/internal/log"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolved entries over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("listen") {
				a.cfg.Server.ListenAddr = listen
			}
			logger := xglog.WithComponent("cli")

			tp, err := newTelemetry(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()

			exec := newExecutor(a.cfg)
			sessions, tc, err := newSessions(ctx, a.cfg, exec)
			if err != nil {
				return err
			}
			defer func() { _ = tc.Close() }()

			hm := health.NewManager(version)
			hm.RegisterChecker(health.NewBreakerChecker("upstream", exec.BreakerState))
			if p, ok := tc.(health.Pinger); ok {
				hm.RegisterChecker(health.NewPingChecker("session_cache", p))
			}

			tracing := ""
			if tp.Enabled() {
				tracing = "ovpmedia"
			}
			srv := &http.Server{
				Addr: a.cfg.Server.ListenAddr,
				Handler: api.New(api.Options{
					Provider:       newProviderConfig(a.cfg, exec),
					Sessions:       sessions,
					RateLimit:      a.cfg.Server.RateLimit,
					TracingService: tracing,
					Health:         hm,
					Version:        version,
				}).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      a.cfg.HTTP.Timeout + 5*time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().
					Str(xglog.FieldEvent, "server.start").
					Str("addr", srv.Addr).
					Str("version", version).
					Msg("starting HTTP API")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutting down HTTP API")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")
	return cmd
}
