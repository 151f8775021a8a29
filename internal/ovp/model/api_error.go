// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// APIError is an exception object returned in place of a result.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	ObjectType string `json:"objectType"`
}

func (*APIError) Kind() Kind { return KindAPIError }

func (e *APIError) Error() string {
	return fmt.Sprintf("ovp api error %s: %s", e.Code, e.Message)
}

func matchAPIError(f Fragment) bool {
	m, ok := asMap(f)
	if !ok {
		return false
	}
	if objectType(m) == "KalturaAPIException" {
		return true
	}
	if !hasString(m, "code") || !hasString(m, "message") {
		return false
	}
	for _, key := range []string{"objects", "sources", "id", "ks", "xml"} {
		if _, ok := m[key]; ok {
			return false
		}
	}
	return true
}

func buildAPIError(_ *Mapper, f Fragment) (Object, error) {
	var e APIError
	if err := decodeInto(f, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
