// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/ovp/provider"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		entryID string
		output  string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one entry into playable sources",
		Long:  "Fetch entry info, playback context and custom metadata in one multi-request and print the resulting media entry.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tp, err := newTelemetry(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = tp.Shutdown(ctx) }()

			cfg := newProviderConfig(a.cfg, newExecutor(a.cfg)).WithEntryID(entryID)
			entry, err := provider.New(cfg).Load(ctx)
			if err != nil {
				var perr *provider.Error
				if errors.As(err, &perr) {
					logger := xglog.WithComponent("cli")
					logger.Debug().
						Str(xglog.FieldEvent, "cli.resolve.failed").
						Str("kind", perr.Code.String()).
						Interface("details", perr.UserInfo()).
						Msg("resolve failed")
				}
				return err
			}

			data, err := encode(entry, output)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVarP(&entryID, "entry-id", "e", "", "entry id to resolve")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json, yaml)")
	cmd.Flags().StringVar(&out, "out", "", "write the result to this file instead of stdout")
	_ = cmd.MarkFlagRequired("entry-id")
	return cmd
}
