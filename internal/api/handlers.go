// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/ovp/provider"
)

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := s.base.WithEntryID(chi.URLParam(r, "entryID"))

	if cfg.KS() == "" && s.sessions != nil && cfg.BaseURL() != "" && cfg.PartnerID() > 0 {
		ks, err := s.sessions.Get(ctx, cfg.BaseURL(), cfg.PartnerID())
		if err == nil {
			cfg = cfg.WithKS(ks)
		} else {
			// the batch opens its own session when none is cached
			logger(r).Debug().Err(err).
				Str(xglog.FieldEvent, "api.session.fallback").
				Msg("cached session unavailable, bootstrapping in batch")
		}
	}

	entry, err := provider.New(cfg).Load(ctx)
	if err != nil {
		writeProviderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
