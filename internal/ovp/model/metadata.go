// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

// Metadata carries one custom-metadata document attached to an entry.
type Metadata struct {
	ID                FlexString `json:"id"`
	MetadataProfileID FlexString `json:"metadataProfileId"`
	ObjectID          string     `json:"objectId"`
	XML               string     `json:"xml"`
}

func (*Metadata) Kind() Kind { return KindMetadata }

func matchMetadata(f Fragment) bool {
	m, ok := asMap(f)
	return ok && hasString(m, "xml")
}

func buildMetadata(_ *Mapper, f Fragment) (Object, error) {
	var md Metadata
	if err := decodeInto(f, &md); err != nil {
		return nil, err
	}
	return &md, nil
}
