// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package source

import (
	"context"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/metrics"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
)

// Input is one entry's playback context plus the addressing data needed to
// build manifest URLs.
type Input struct {
	Sources   []model.PlaybackSource
	BaseURL   string
	PartnerID int64
	UIConfID  int64
	EntryID   string
	KS        string
	Referrer  string
}

// Resolved is a playable source.
type Resolved struct {
	ID     string
	URL    string
	Format Format
	DRM    []DRMParams
}

// Resolver converts playback-context sources into playable sources.
type Resolver struct {
	urls URLBuilder
}

// NewResolver returns a Resolver using b, or PlayManifestBuilder when b is nil.
func NewResolver(b URLBuilder) *Resolver {
	if b == nil {
		b = PlayManifestBuilder{}
	}
	return &Resolver{urls: b}
}

// Resolve keeps source order. Sources with an unsupported format are dropped
// silently; sources without a usable URL are dropped with an error log.
func (r *Resolver) Resolve(ctx context.Context, in Input) []Resolved {
	logger := xglog.WithContext(ctx, xglog.WithComponent("ovp.source"))
	out := make([]Resolved, 0, len(in.Sources))
	for _, src := range in.Sources {
		format := ClassifyFormat(src.Format, src.HasDRM())
		if format == FormatUnknown {
			metrics.IncSourceDropped("unsupported_format")
			continue
		}

		playURL, ok := r.playbackURL(in, src, format)
		if !ok {
			metrics.IncSourceDropped("no_url")
			logger.Error().
				Str(xglog.FieldEvent, "ovp.source.dropped").
				Str(xglog.FieldEntryID, in.EntryID).
				Str(xglog.FieldDeliveryProfileID, string(src.DeliveryProfileID)).
				Str(xglog.FieldFormat, src.Format).
				Msg("failed to create play url from source, discarding source")
			continue
		}

		metrics.IncSourceResolved(string(format))
		out = append(out, Resolved{
			ID:     in.EntryID + "_" + string(src.DeliveryProfileID),
			URL:    playURL,
			Format: format,
			DRM:    BuildDRM(src.DRM),
		})
	}
	return out
}

// playbackURL builds a manifest URL when the source lists renditions and
// falls back to the literal URL otherwise.
func (r *Resolver) playbackURL(in Input, src model.PlaybackSource, format Format) (string, bool) {
	if len(src.FlavorIDs) > 0 {
		return r.urls.Build(URLParams{
			BaseURL:   in.BaseURL,
			PartnerID: in.PartnerID,
			UIConfID:  in.UIConfID,
			EntryID:   in.EntryID,
			KS:        in.KS,
			Format:    src.Format,
			Protocol:  src.PreferredProtocol(),
			Extension: format.Extension(),
			FlavorIDs: src.FlavorIDs,
			Referrer:  in.Referrer,
		})
	}
	if src.URL == "" {
		return "", false
	}
	return src.URL, true
}
