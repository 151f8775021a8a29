// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrTrailingData is returned when a reply body holds more than one JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// DecodeBody eagerly decodes a complete reply body. Numbers are kept as
// json.Number so large ids survive untouched.
func DecodeBody(r io.Reader) (Fragment, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var f Fragment
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode reply: %w", ErrTrailingData)
	}
	return f, nil
}

// decodeInto re-encodes a fragment and unmarshals it into a typed struct.
func decodeInto(f Fragment, v any) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// FlexString handles JSON fields that can be "123" or 123.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex string: invalid json value: %s", string(b))
	}
	*s = FlexString(n.String())
	return nil
}

// FlexInt64 handles JSON fields that can be "123", 123 or 123.0.
type FlexInt64 int64

func (v *FlexInt64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*v = 0
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*v = FlexInt64(i)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("flex int: invalid value %q", raw)
	}
	*v = FlexInt64(f)
	return nil
}

// CSV is a comma separated list on the wire ("http,https"). A JSON array is
// accepted too.
type CSV []string

func (c *CSV) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = nil
		return nil
	}
	if b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*c = compact(items)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("csv: invalid json value: %s", string(b))
	}
	*c = compact(strings.Split(s, ","))
	return nil
}

func compact(items []string) CSV {
	out := make(CSV, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
