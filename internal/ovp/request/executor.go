// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/metrics"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
	"github.com/ManuGH/ovpmedia/internal/resilience"
	"github.com/ManuGH/ovpmedia/internal/telemetry"
)

// Options configures the HTTP executor.
type Options struct {
	Timeout          time.Duration
	RateLimit        rate.Limit
	RateLimitBurst   int
	UserAgent        string
	BreakerThreshold int
	BreakerReset     time.Duration
	HTTPClient       *http.Client // optional, overrides Timeout
}

const (
	defaultTimeout        = 10 * time.Second
	defaultRateLimit      = 10
	defaultRateLimitBurst = 20
	defaultUserAgent      = "ovpmedia"

	// maxReplyBytes caps how much of a reply is read into memory.
	maxReplyBytes = 8 << 20
)

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	return opts
}

// HTTPExecutor posts requests as JSON, one attempt each. Outbound calls are
// rate limited and guarded by a circuit breaker.
type HTTPExecutor struct {
	client    *http.Client
	limiter   *rate.Limiter
	breaker   *resilience.CircuitBreaker
	userAgent string
}

// NewHTTPExecutor creates an executor with the given options.
func NewHTTPExecutor(opts Options) *HTTPExecutor {
	nopts := normalizeOptions(opts)
	client := nopts.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: nopts.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: nopts.Timeout,
			},
		}
	}
	return &HTTPExecutor{
		client:  client,
		limiter: rate.NewLimiter(nopts.RateLimit, nopts.RateLimitBurst),
		breaker: resilience.NewCircuitBreaker("ovp_upstream", nopts.BreakerThreshold, nopts.BreakerReset,
			resilience.WithFailureFilter(countsAgainstBreaker)),
		userAgent: nopts.UserAgent,
	}
}

// BreakerState reports the upstream circuit breaker state.
func (e *HTTPExecutor) BreakerState() resilience.State {
	return e.breaker.State()
}

// countsAgainstBreaker trips only on backend health problems. Malformed
// replies and caller cancellation do not count.
func countsAgainstBreaker(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrUpstreamError)
}

// Send performs the exchange on its own goroutine and completes req.
func (e *HTTPExecutor) Send(ctx context.Context, req *Request) {
	go func() {
		req.Complete(e.Do(ctx, req))
	}()
}

// Do performs the exchange synchronously.
func (e *HTTPExecutor) Do(ctx context.Context, req *Request) Response {
	var body model.Fragment
	var status int
	start := time.Now()

	tracer := telemetry.Tracer("ovpmedia.request")
	ctx, span := tracer.Start(ctx, "ovpmedia.upstream.request", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	urlLabel := redactURL(req.URL)
	span.SetAttributes(telemetry.BatchAttributes(req.Services)...)
	span.SetAttributes(attribute.String(telemetry.HTTPURLKey, urlLabel))

	err := e.breaker.Execute(func() error {
		var err error
		body, status, err = e.roundTrip(ctx, req)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		err = &TransportError{Sentinel: ErrUpstreamUnavailable, Operation: req.Operation, Err: err}
	}
	duration := time.Since(start)

	errClass := classifyError(err, status)
	metrics.RecordUpstream(req.Operation, status, duration, errClass)
	span.SetAttributes(telemetry.HTTPAttributes(req.Method, req.Operation, urlLabel, status)...)

	logger := xglog.WithContext(ctx, xglog.WithComponent("ovp.request"))
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(errClass)...)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "ovp.upstream.failed").
			Str(xglog.FieldOperation, req.Operation).
			Int(xglog.FieldStatusCode, status).
			Dur("duration", duration).
			Msg("ovp request failed")
		return Response{Err: err}
	}
	span.SetStatus(codes.Ok, "")
	logger.Debug().
		Str(xglog.FieldEvent, "ovp.upstream.ok").
		Str(xglog.FieldOperation, req.Operation).
		Int(xglog.FieldStatusCode, status).
		Int(xglog.FieldBatchSize, len(req.Services)).
		Dur("duration", duration).
		Msg("ovp request completed")
	return Response{Body: body}
}

func (e *HTTPExecutor) roundTrip(ctx context.Context, req *Request) (model.Fragment, int, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, 0, &TransportError{Sentinel: ErrUpstreamUnavailable, Operation: req.Operation, Err: err}
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, 0, &TransportError{Sentinel: ErrUpstreamUnavailable, Operation: req.Operation, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", e.userAgent)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, 0, &TransportError{Sentinel: ErrUpstreamUnavailable, Operation: req.Operation, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))
		return nil, resp.StatusCode, &TransportError{Sentinel: ErrUpstreamError, Operation: req.Operation, Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))
		return nil, resp.StatusCode, &TransportError{Sentinel: ErrUpstreamBadResponse, Operation: req.Operation, Status: resp.StatusCode}
	}

	body, err := model.DecodeBody(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Sentinel: ErrUpstreamBadResponse, Operation: req.Operation, Status: resp.StatusCode, Err: err}
	}
	return body, resp.StatusCode, nil
}

func classifyError(err error, status int) string {
	if err != nil {
		switch {
		case errors.Is(err, resilience.ErrCircuitOpen):
			return "circuit_open"
		case errors.Is(err, context.Canceled):
			return "canceled"
		case errors.Is(err, context.DeadlineExceeded):
			return "timeout"
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			if netErr.Timeout() {
				return "timeout"
			}
			return "network"
		}
		if errors.Is(err, ErrUpstreamBadResponse) && status == http.StatusOK {
			return "decode"
		}
	}
	if status >= 500 {
		return "http_5xx"
	}
	if status >= 400 {
		return "http_4xx"
	}
	if err != nil {
		return "error"
	}
	if status == 0 {
		return "unknown"
	}
	return "ok"
}

// redactURL drops query and credentials from a URL before it is recorded.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("<invalid url: %d bytes>", len(raw))
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
