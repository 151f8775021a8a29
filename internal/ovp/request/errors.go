// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package request

import (
	"errors"
	"fmt"
)

var (
	// Build-time errors.
	ErrInvalidURL     = errors.New("request: invalid base url")
	ErrMissingService = errors.New("request: service and action are required")
	ErrTooFewRequests = errors.New("request: too few requests in batch")
	ErrMissingSlot    = errors.New("request: reply has no slot for request")

	// Transport errors, for errors.Is checks at the boundary.
	ErrUpstreamUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrUpstreamError       = errors.New("upstream: internal error (5xx)")
	ErrUpstreamBadResponse = errors.New("upstream: invalid response format or malformed data")
)

// TransportError wraps a sentinel with the context of the failed exchange.
type TransportError struct {
	Sentinel  error
	Operation string
	Status    int
	Err       error // lower-level cause (net.Error, context error, decode error)
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("ovp: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// ErrUpstreamUnavailable as well as context.Canceled.
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}
