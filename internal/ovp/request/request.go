// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package request builds OVP API calls and multi-request batches and sends
// them to the backend.
package request

import (
	"context"
	"fmt"
	"sync"

	"github.com/ManuGH/ovpmedia/internal/ovp/model"
)

// Response is what a completion hook receives. For a batch, Body is the
// whole reply array; for one slot of a batch, Body is that slot's fragment.
type Response struct {
	Body model.Fragment
	Err  error
}

// Request is a built, ready-to-send call.
type Request struct {
	Method    string
	URL       string
	Body      []byte
	Operation string   // metric/span label, e.g. "multirequest"
	Services  []string // service.action of every call carried by the request

	once       sync.Once
	completion func(Response)
}

// Complete runs the completion hook. Only the first call has an effect.
func (r *Request) Complete(resp Response) {
	r.once.Do(func() {
		if r.completion != nil {
			r.completion(resp)
		}
	})
}

// Executor sends a request and calls its completion hook exactly once,
// asynchronously.
type Executor interface {
	Send(ctx context.Context, req *Request)
}

// ExecutorFunc adapts a synchronous round trip into an Executor.
type ExecutorFunc func(ctx context.Context, req *Request) Response

// Send runs fn on its own goroutine and completes the request with its result.
func (fn ExecutorFunc) Send(ctx context.Context, req *Request) {
	go func() {
		req.Complete(fn(ctx, req))
	}()
}

// ResultRef is the placeholder the backend substitutes with a field of an
// earlier call's result in the same batch, e.g. ResultRef(1, "ks") is
// "{1:result:ks}".
func ResultRef(index int, field string) string {
	return fmt.Sprintf("{%d:result:%s}", index, field)
}
