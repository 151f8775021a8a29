// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"errors"
	"strings"
)

// Entry is a catalog entry as returned by baseEntry.list.
type Entry struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Duration        FlexInt64 `json:"duration"`   // seconds
	MsDuration      FlexInt64 `json:"msDuration"` // milliseconds, when requested
	Tags            string    `json:"tags"`
	MediaType       FlexInt64 `json:"mediaType"`
	DataURL         string    `json:"dataUrl"`
	FlavorParamsIDs string    `json:"flavorParamsIds"`
}

func (*Entry) Kind() Kind { return KindEntry }

// Seconds prefers the millisecond duration when the backend supplied one.
func (e *Entry) Seconds() float64 {
	if e.MsDuration > 0 {
		return float64(e.MsDuration) / 1000
	}
	return float64(e.Duration)
}

func matchEntry(f Fragment) bool {
	m, ok := asMap(f)
	if !ok || !hasString(m, "id") {
		return false
	}
	if strings.HasSuffix(objectType(m), "Entry") {
		return true
	}
	_, hasDuration := m["duration"]
	_, hasMediaType := m["mediaType"]
	return hasDuration || hasMediaType || hasString(m, "name")
}

func buildEntry(_ *Mapper, f Fragment) (Object, error) {
	var e Entry
	if err := decodeInto(f, &e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, errors.New("entry: empty id")
	}
	return &e, nil
}
