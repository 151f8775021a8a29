// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package provider

import "github.com/ManuGH/ovpmedia/internal/ovp/source"

// DRMParams describes license acquisition for one DRM scheme.
type DRMParams = source.DRMParams

// MediaEntry is the playable description of one catalog entry.
type MediaEntry struct {
	ID        string            `json:"id" yaml:"id"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Duration  float64           `json:"duration" yaml:"duration"` // seconds
	Tags      string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	MediaType int64             `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	Sources   []MediaSource     `json:"sources" yaml:"sources"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// MediaSource is one playable rendition set.
type MediaSource struct {
	ID          string        `json:"id" yaml:"id"`
	ContentURL  string        `json:"contentUrl" yaml:"contentUrl"`
	MediaFormat source.Format `json:"mediaFormat" yaml:"mediaFormat"`
	DRMData     []DRMParams   `json:"drmData,omitempty" yaml:"drmData,omitempty"`
}
