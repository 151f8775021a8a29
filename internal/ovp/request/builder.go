// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package request

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// Builder describes one service call. It can be built on its own or added to
// a MultiBuilder.
type Builder struct {
	baseURL    string
	service    string
	action     string
	params     map[string]any
	completion func(Response)
	index      int
}

// New starts a call to <baseURL>/service/<service>/action/<action>.
func New(baseURL, service, action string) *Builder {
	return &Builder{
		baseURL: baseURL,
		service: service,
		action:  action,
		params:  make(map[string]any),
	}
}

// Set adds a body parameter. Nested objects are plain maps.
func (b *Builder) Set(key string, value any) *Builder {
	b.params[key] = value
	return b
}

// SetCompletion registers the hook that receives this call's result.
func (b *Builder) SetCompletion(fn func(Response)) *Builder {
	b.completion = fn
	return b
}

func (b *Builder) Service() string { return b.service }
func (b *Builder) Action() string  { return b.action }

// Index is the 1-based position assigned by MultiBuilder.Add, 0 when the
// call is not part of a batch.
func (b *Builder) Index() int { return b.index }

// Param returns a previously set parameter.
func (b *Builder) Param(key string) (any, bool) {
	v, ok := b.params[key]
	return v, ok
}

func (b *Builder) name() string { return b.service + "." + b.action }

func (b *Builder) validate() error {
	if b.service == "" || b.action == "" {
		return fmt.Errorf("%w: %q", ErrMissingService, b.name())
	}
	return nil
}

// Build produces a single POST request.
func (b *Builder) Build() (*Request, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	endpoint, err := joinURL(b.baseURL, "service", b.service, "action", b.action)
	if err != nil {
		return nil, err
	}
	body := maps.Clone(b.params)
	for k, v := range map[string]any{
		"format":     FormatJSON,
		"apiVersion": APIVersion,
		"clientTag":  ClientTag,
	} {
		if _, ok := body[k]; !ok {
			body[k] = v
		}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", b.name(), err)
	}
	return &Request{
		Method:     http.MethodPost,
		URL:        endpoint,
		Body:       raw,
		Operation:  b.name(),
		Services:   []string{b.name()},
		completion: b.completion,
	}, nil
}

// joinURL appends path segments to an absolute http(s) base URL.
func joinURL(base string, segments ...string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, base)
	}
	return u.JoinPath(segments...).String(), nil
}
