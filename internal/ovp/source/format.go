// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package source turns playback-context sources into playable media sources.
package source

import "strings"

// Format is the container/streaming format of a media source.
type Format string

const (
	FormatHLS     Format = "hls"
	FormatDASH    Format = "dash"
	FormatMP4     Format = "mp4"
	FormatWVM     Format = "wvm"
	FormatUnknown Format = "unknown"
)

// Extension is the file extension used in play-manifest URLs.
func (f Format) Extension() string {
	switch f {
	case FormatHLS:
		return "m3u8"
	case FormatDASH:
		return "mpd"
	case FormatMP4:
		return "mp4"
	case FormatWVM:
		return "wvm"
	default:
		return ""
	}
}

// ClassifyFormat maps a backend delivery format to a Format. Progressive
// download cannot carry DRM, so a protected mp4 source is unknown.
func ClassifyFormat(format string, hasDRM bool) Format {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "applehttp", "hls":
		return FormatHLS
	case "mpegdash", "dash":
		return FormatDASH
	case "url", "mp4":
		if hasDRM {
			return FormatUnknown
		}
		return FormatMP4
	case "wvm":
		return FormatWVM
	default:
		return FormatUnknown
	}
}
