// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package provider resolves a catalog entry into a playable MediaEntry with
// one multi-request exchange against the OVP backend.
package provider

import (
	"context"
	"sync"

	"github.com/ManuGH/ovpmedia/internal/ovp/metadata"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
	"github.com/ManuGH/ovpmedia/internal/ovp/request"
	"github.com/ManuGH/ovpmedia/internal/ovp/source"
)

// coreRequests is the number of calls every batch carries besides the
// optional session bootstrap: entry, playback context, metadata.
const coreRequests = 3

var sharedExecutor = sync.OnceValue(func() request.Executor {
	return request.NewHTTPExecutor(request.Options{})
})

// Callback receives the outcome of LoadMedia: exactly one of entry and err
// is non-nil.
type Callback func(entry *MediaEntry, err error)

// Provider loads media entries. It holds no per-load state, so concurrent
// loads on one Provider are safe.
type Provider struct {
	cfg       Config
	executor  request.Executor
	mapper    *model.Mapper
	resolver  *source.Resolver
	flattener *metadata.Flattener

	mu       sync.Mutex
	nextID   uint64
	inflight map[uint64]context.CancelFunc
}

// New creates a Provider. A nil executor in cfg selects a process-wide
// HTTPExecutor with default options.
func New(cfg Config) *Provider {
	exec := cfg.executor
	if exec == nil {
		exec = sharedExecutor()
	}
	return &Provider{
		cfg:       cfg,
		executor:  exec,
		mapper:    model.Default(),
		resolver:  source.NewResolver(cfg.urlBuilder),
		flattener: metadata.NewFlattener(cfg.docParser),
		inflight:  make(map[uint64]context.CancelFunc),
	}
}

// Config returns the provider's configuration.
func (p *Provider) Config() Config { return p.cfg }

// LoadMedia starts a load and reports its outcome through cb. Validation
// failures are reported before any request is sent, on the caller's
// goroutine; everything else is reported on the executor's goroutine.
func (p *Provider) LoadMedia(ctx context.Context, cb Callback) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	id := p.register(cancel)
	l := newLoad(ctx, p, cb, func() {
		p.unregister(id)
		cancel()
	})
	l.run()
}

// Load is the blocking form of LoadMedia.
func (p *Provider) Load(ctx context.Context) (*MediaEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	type outcome struct {
		entry *MediaEntry
		err   error
	}
	ch := make(chan outcome, 1)
	p.LoadMedia(ctx, func(entry *MediaEntry, err error) {
		ch <- outcome{entry: entry, err: err}
	})
	select {
	case out := <-ch:
		return out.entry, out.err
	case <-ctx.Done():
		return nil, InvalidResponse(ctx.Err())
	}
}

// Cancel aborts every in-flight load of this provider. Their callbacks
// receive an invalidResponse error wrapping context.Canceled.
func (p *Provider) Cancel() {
	p.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(p.inflight))
	for _, c := range p.inflight {
		cancels = append(cancels, c)
	}
	p.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}

// InFlight reports the number of loads awaiting completion.
func (p *Provider) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

func (p *Provider) register(cancel context.CancelFunc) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.inflight[p.nextID] = cancel
	return p.nextID
}

func (p *Provider) unregister(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, id)
}
