// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package source

import (
	"github.com/ManuGH/ovpmedia/internal/metrics"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
)

// Scheme is a content-protection system.
type Scheme string

const (
	SchemeWidevineCENC    Scheme = "widevineCenc"
	SchemePlayReadyCENC   Scheme = "playreadyCenc"
	SchemeWidevineClassic Scheme = "widevineClassic"
	SchemeFairPlay        Scheme = "fairplay"
	SchemeUnknown         Scheme = "unknown"
)

// DRMParams is what a player needs to acquire a license.
type DRMParams struct {
	Scheme      Scheme `json:"scheme" yaml:"scheme"`
	LicenseURI  string `json:"licenseUri,omitempty" yaml:"licenseUri,omitempty"`
	Certificate string `json:"certificate,omitempty" yaml:"certificate,omitempty"` // base64, FairPlay only
}

// MapScheme converts a backend scheme name.
func MapScheme(name string) Scheme {
	switch name {
	case "drm.WIDEVINE_CENC":
		return SchemeWidevineCENC
	case "drm.PLAYREADY_CENC":
		return SchemePlayReadyCENC
	case "widevine.WIDEVINE":
		return SchemeWidevineClassic
	case "fairplay.FAIRPLAY":
		return SchemeFairPlay
	default:
		return SchemeUnknown
	}
}

// BuildDRM converts DRM descriptors in order. Descriptors without a scheme
// are dropped, as are FairPlay descriptors lacking certificate or license URL.
func BuildDRM(data []model.DRMPlaybackData) []DRMParams {
	if len(data) == 0 {
		return nil
	}
	out := make([]DRMParams, 0, len(data))
	for _, d := range data {
		if d.Scheme == "" {
			metrics.IncDRMDropped("no_scheme")
			continue
		}
		scheme := MapScheme(d.Scheme)
		if scheme == SchemeFairPlay {
			if d.Certificate == "" || d.LicenseURL == "" {
				metrics.IncDRMDropped("fairplay_incomplete")
				continue
			}
			out = append(out, DRMParams{Scheme: scheme, LicenseURI: d.LicenseURL, Certificate: d.Certificate})
			continue
		}
		out = append(out, DRMParams{Scheme: scheme, LicenseURI: d.LicenseURL})
	}
	return out
}
