// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package request

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strconv"
)

const (
	// FormatJSON asks the backend for JSON replies.
	FormatJSON = 1
	// APIVersion is the API schema version the batches are written against.
	APIVersion = "3.3.0"
	// ClientTag identifies this client in backend logs.
	ClientTag = "ovpmedia"
)

// MultiBuilder collects calls into one multirequest. Slot i of the reply
// array belongs to the i-th added call.
type MultiBuilder struct {
	apiBaseURL string
	params     map[string]any
	requests   []*Builder
	completion func(Response)
}

// NewMulti starts a batch against <apiBaseURL>/service/multirequest.
func NewMulti(apiBaseURL string) *MultiBuilder {
	return &MultiBuilder{
		apiBaseURL: apiBaseURL,
		params:     make(map[string]any),
	}
}

// SetBasicParams sets format, apiVersion and clientTag.
func (m *MultiBuilder) SetBasicParams() *MultiBuilder {
	m.params["format"] = FormatJSON
	m.params["apiVersion"] = APIVersion
	m.params["clientTag"] = ClientTag
	return m
}

// Set adds a top-level batch parameter (e.g. "ks").
func (m *MultiBuilder) Set(key string, value any) *MultiBuilder {
	m.params[key] = value
	return m
}

// Add appends calls in submission order and assigns their 1-based index.
func (m *MultiBuilder) Add(calls ...*Builder) *MultiBuilder {
	for _, b := range calls {
		if b == nil {
			continue
		}
		m.requests = append(m.requests, b)
		b.index = len(m.requests)
	}
	return m
}

// Len reports the number of calls added so far.
func (m *MultiBuilder) Len() int { return len(m.requests) }

// SetCompletion registers the hook that receives the whole reply. It runs
// after every per-call hook.
func (m *MultiBuilder) SetCompletion(fn func(Response)) *MultiBuilder {
	m.completion = fn
	return m
}

// Build produces the multirequest. It fails when fewer than min calls were
// added, when a call lacks service or action, or when the base URL is bad.
func (m *MultiBuilder) Build(min int) (*Request, error) {
	if len(m.requests) < min {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewRequests, len(m.requests), min)
	}
	endpoint, err := joinURL(m.apiBaseURL, "service", "multirequest")
	if err != nil {
		return nil, err
	}

	body := maps.Clone(m.params)
	services := make([]string, 0, len(m.requests))
	for _, b := range m.requests {
		if err := b.validate(); err != nil {
			return nil, err
		}
		call := maps.Clone(b.params)
		call["service"] = b.service
		call["action"] = b.action
		body[strconv.Itoa(b.index)] = call
		services = append(services, b.name())
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode multirequest: %w", err)
	}

	calls := append([]*Builder(nil), m.requests...)
	batchHook := m.completion
	return &Request{
		Method:    http.MethodPost,
		URL:       endpoint,
		Body:      raw,
		Operation: "multirequest",
		Services:  services,
		completion: func(resp Response) {
			dispatch(calls, resp)
			if batchHook != nil {
				batchHook(resp)
			}
		},
	}, nil
}

// dispatch hands every call the slot at its recorded index.
func dispatch(calls []*Builder, resp Response) {
	items, isArray := resp.Body.([]any)
	for _, b := range calls {
		if b.completion == nil {
			continue
		}
		switch {
		case resp.Err != nil:
			b.completion(Response{Err: resp.Err})
		case !isArray || b.index < 1 || b.index > len(items):
			b.completion(Response{Err: fmt.Errorf("%w: %s at %d", ErrMissingSlot, b.name(), b.index)})
		default:
			b.completion(Response{Body: items[b.index-1]})
		}
	}
}
