// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package model maps untyped OVP API reply fragments to typed objects.
//
// The backend gives no reliable type tag, so each Fragment is classified by a
// registry of shape predicates (Mapper) and built by the matching rule.
package model

// Fragment is one node of a decoded JSON reply: map[string]any, []any,
// json.Number, string, bool or nil.
type Fragment = any

// Kind identifies an Object variant.
type Kind string

const (
	KindEntry              Kind = "entry"
	KindPlaybackContext    Kind = "playbackContext"
	KindMetadata           Kind = "metadata"
	KindList               Kind = "list"
	KindStartWidgetSession Kind = "startWidgetSession"
	KindAPIError           Kind = "apiError"
)

// Object is the typed result of mapping a Fragment. Every variant is built
// from a Fragment alone and holds no external references.
type Object interface {
	Kind() Kind
}
