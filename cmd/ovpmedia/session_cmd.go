// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Open an anonymous widget session and print its token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sessions, tc, err := newSessions(ctx, a.cfg, newExecutor(a.cfg))
			if err != nil {
				return err
			}
			defer func() { _ = tc.Close() }()

			ks, err := sessions.Get(ctx, a.cfg.OVP.BaseURL, a.cfg.OVP.PartnerID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ks)
			return err
		},
	}
}
