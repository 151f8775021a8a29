// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ManuGH/ovpmedia/internal/config"
	xglog "github.com/ManuGH/ovpmedia/internal/log"
)

// app carries state shared by subcommands once the root pre-run has loaded
// the configuration.
type app struct {
	configPath string
	logLevel   string

	// backend overrides, applied only when the flag was set
	baseURL   string
	partnerID int64
	ks        string
	referrer  string

	cfg config.AppConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ovpmedia",
		Short:         "Resolve OVP catalog entries into playable media",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to config file (YAML)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.baseURL, "base-url", "", "OVP service URL, e.g. https://cdnapisec.example.com")
	pf.Int64Var(&a.partnerID, "partner-id", 0, "partner id")
	pf.StringVar(&a.ks, "ks", "", "session token; an anonymous widget session is opened when empty")
	pf.StringVar(&a.referrer, "referrer", "", "referrer sent with the playback context request")

	root.AddCommand(
		newResolveCmd(a),
		newSessionCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// load applies ENV > file > defaults, then explicit flags on top.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(a.configPath, version).Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.OVP.BaseURL = a.baseURL
	}
	if flags.Changed("partner-id") {
		cfg.OVP.PartnerID = a.partnerID
	}
	if flags.Changed("ks") {
		cfg.OVP.KS = a.ks
	}
	if flags.Changed("referrer") {
		cfg.OVP.Referrer = a.referrer
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	xglog.Reconfigure(xglog.Config{
		Level:   cfg.Log.Level,
		Output:  cmd.ErrOrStderr(),
		Service: "ovpmedia",
	})
	a.cfg = cfg

	logger := xglog.WithComponent("cli")
	ev := logger.Debug().Str(xglog.FieldEvent, "config.loaded")
	if a.configPath != "" {
		ev = ev.Str("source", "file").Str("path", a.configPath)
	} else {
		ev = ev.Str("source", "env+defaults")
	}
	ev.Msg("configuration loaded")
	return nil
}
