// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"sort"
	"sync"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
)

// Rule pairs a shape predicate with the constructor of one variant.
// Build receives the owning Mapper so container variants can parse nested
// fragments with the same registry.
type Rule struct {
	Kind     Kind
	Priority int
	Match    func(Fragment) bool
	Build    func(m *Mapper, f Fragment) (Object, error)
}

// Mapper is an ordered registry of rules. Rules are evaluated in ascending
// priority; among equal priorities, registration order decides.
type Mapper struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewMapper returns a Mapper holding the given rules.
func NewMapper(rules ...Rule) *Mapper {
	m := &Mapper{}
	for _, r := range rules {
		m.Register(r)
	}
	return m
}

// DefaultRules returns the built-in variant rules.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: KindAPIError, Priority: 10, Match: matchAPIError, Build: buildAPIError},
		{Kind: KindList, Priority: 20, Match: matchList, Build: buildList},
		{Kind: KindPlaybackContext, Priority: 30, Match: matchPlaybackContext, Build: buildPlaybackContext},
		{Kind: KindStartWidgetSession, Priority: 40, Match: matchStartWidgetSession, Build: buildStartWidgetSession},
		{Kind: KindMetadata, Priority: 50, Match: matchMetadata, Build: buildMetadata},
		{Kind: KindEntry, Priority: 60, Match: matchEntry, Build: buildEntry},
	}
}

// Register adds a rule. Existing rules keep their relative order.
func (m *Mapper) Register(r Rule) {
	if r.Match == nil || r.Build == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, r)
	sort.SliceStable(m.rules, func(i, j int) bool {
		return m.rules[i].Priority < m.rules[j].Priority
	})
}

func (m *Mapper) snapshot() []Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out
}

func (m *Mapper) lookup(f Fragment) (Rule, bool) {
	for _, r := range m.snapshot() {
		if r.Match(f) {
			return r, true
		}
	}
	return Rule{}, false
}

// Classify reports which variant a fragment maps to. Unrecognised fragments
// yield ("", false).
func (m *Mapper) Classify(f Fragment) (Kind, bool) {
	r, ok := m.lookup(f)
	if !ok {
		return "", false
	}
	return r.Kind, true
}

// Parse maps one fragment to a typed object, nil when the fragment is not
// recognised or its fields are malformed.
func (m *Mapper) Parse(f Fragment) Object {
	r, ok := m.lookup(f)
	if !ok {
		return nil
	}
	obj, err := r.Build(m, f)
	if err != nil {
		logger := xglog.WithComponent("ovp.model")
		logger.Debug().
			Err(err).
			Str(xglog.FieldEvent, "ovp.model.build_failed").
			Str("kind", string(r.Kind)).
			Msg("fragment matched but could not be built")
		return nil
	}
	return obj
}

// ParseAll maps a reply array element by element. The result has the same
// length as the input; unparseable slots are nil. Non-array input yields an
// empty result.
func (m *Mapper) ParseAll(raw Fragment) []Object {
	items, ok := raw.([]any)
	if !ok {
		return []Object{}
	}
	out := make([]Object, len(items))
	for i, item := range items {
		out[i] = m.Parse(item)
	}
	return out
}

// ParseFirst maps the first element of a reply array, or the reply itself
// when it is a single object.
func (m *Mapper) ParseFirst(raw Fragment) Object {
	if items, ok := raw.([]any); ok {
		if len(items) == 0 {
			return nil
		}
		return m.Parse(items[0])
	}
	return m.Parse(raw)
}

var defaultMapper = NewMapper(DefaultRules()...)

// Default returns the process-wide mapper with the built-in rules.
func Default() *Mapper { return defaultMapper }

// Parse maps one fragment with the default mapper.
func Parse(f Fragment) Object { return defaultMapper.Parse(f) }

// ParseAll maps every element of a batched reply with the default mapper.
func ParseAll(raw Fragment) []Object { return defaultMapper.ParseAll(raw) }

// ParseFirst maps the first element of an array reply, or a lone object,
// with the default mapper.
func ParseFirst(raw Fragment) Object { return defaultMapper.ParseFirst(raw) }

// Classify reports which kind the default mapper assigns to f.
func Classify(f Fragment) (Kind, bool) { return defaultMapper.Classify(f) }

func asMap(f Fragment) (map[string]any, bool) {
	m, ok := f.(map[string]any)
	return m, ok
}

func objectType(m map[string]any) string {
	s, _ := m["objectType"].(string)
	return s
}

func hasString(m map[string]any, key string) bool {
	_, ok := m[key].(string)
	return ok
}

func hasArray(m map[string]any, key string) bool {
	_, ok := m[key].([]any)
	return ok
}
