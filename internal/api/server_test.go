// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/ovpmedia/internal/health"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
	"github.com/ManuGH/ovpmedia/internal/ovp/provider"
	"github.com/ManuGH/ovpmedia/internal/ovp/request"
	"github.com/ManuGH/ovpmedia/internal/ovp/session"
	"github.com/ManuGH/ovpmedia/internal/resilience"
)

const (
	testBase    = "https://cdnapisec.example.com"
	testPartner = 2215841

	entrySlot    = `{"objectType":"KalturaBaseEntryListResponse","totalCount":1,"objects":[{"objectType":"KalturaMediaEntry","id":"1_w9zx2eti","name":"Sintel","duration":888}]}`
	contextSlot  = `{"objectType":"KalturaPlaybackContext","sources":[{"deliveryProfileId":911,"format":"applehttp","protocols":"https","flavorIds":"1_a"}],"actions":[],"messages":[]}`
	blockedSlot  = `{"objectType":"KalturaPlaybackContext","sources":[],"actions":[{"type":1}],"messages":[{"code":"COUNTRY_RESTRICTED","message":"Not available in your country"}]}`
	metadataSlot = `{"objectType":"KalturaMetadataListResponse","totalCount":1,"objects":[{"objectType":"KalturaMetadata","id":1,"xml":"<metadata><genre>Animation</genre></metadata>"}]}`
	sessionSlot  = `{"objectType":"KalturaStartWidgetSessionResponse","ks":"djJ8c2Vzc2lvbg","partnerId":2215841}`
	apiErrorSlot = `{"objectType":"KalturaAPIException","code":"ENTRY_ID_NOT_FOUND","message":"Entry id not found"}`
)

func fragment(t *testing.T, raw string) model.Fragment {
	t.Helper()
	f, err := model.DecodeBody(strings.NewReader(raw))
	require.NoError(t, err)
	return f
}

func batch(t *testing.T, slots ...string) model.Fragment {
	t.Helper()
	return fragment(t, "["+strings.Join(slots, ",")+"]")
}

func newTestServer(t *testing.T, cfg provider.Config, opts Options) *httptest.Server {
	t.Helper()
	opts.Provider = cfg
	srv := httptest.NewServer(New(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func staticExecutor(body model.Fragment) request.ExecutorFunc {
	return func(context.Context, *request.Request) request.Response {
		return request.Response{Body: body}
	}
}

func TestEntry_OK(t *testing.T) {
	exec := staticExecutor(batch(t, entrySlot, contextSlot, metadataSlot))
	cfg := provider.NewConfigBuilder().SetBaseURL(testBase).SetKS("djJ8a3M").SetPartnerID(testPartner).SetExecutor(exec).Build()
	srv := newTestServer(t, cfg, Options{})

	resp, body := get(t, srv.URL+"/api/v1/entries/1_w9zx2eti")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	assert.Equal(t, "1_w9zx2eti", body["id"])
	assert.Equal(t, "Sintel", body["name"])
	sources, ok := body["sources"].([]any)
	require.True(t, ok)
	require.Len(t, sources, 1)
	assert.Equal(t, "hls", sources[0].(map[string]any)["mediaFormat"])
	assert.Equal(t, map[string]any{"genre": "Animation"}, body["metadata"])
}

func TestEntry_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		cfg    func(request.Executor) provider.Config
		slots  []string
		status int
		kind   string
	}{
		{
			name: "missing partner",
			cfg: func(e request.Executor) provider.Config {
				return provider.NewConfigBuilder().SetBaseURL(testBase).SetExecutor(e).Build()
			},
			status: http.StatusBadRequest,
			kind:   "invalidParam",
		},
		{
			name: "blocked",
			cfg: func(e request.Executor) provider.Config {
				return provider.NewConfigBuilder().SetBaseURL(testBase).SetKS("ks").SetExecutor(e).Build()
			},
			slots:  []string{entrySlot, blockedSlot, metadataSlot},
			status: http.StatusForbidden,
			kind:   "serverError",
		},
		{
			name: "missing entry",
			cfg: func(e request.Executor) provider.Config {
				return provider.NewConfigBuilder().SetBaseURL(testBase).SetKS("ks").SetExecutor(e).Build()
			},
			slots:  []string{apiErrorSlot, contextSlot, metadataSlot},
			status: http.StatusBadGateway,
			kind:   "invalidResponse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := staticExecutor(batch(t, tt.slots...))
			srv := newTestServer(t, tt.cfg(exec), Options{})

			resp, body := get(t, srv.URL+"/api/v1/entries/1_x")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.kind, body["error"])
			assert.Equal(t, provider.ErrorDomain, body["domain"])
			assert.Equal(t, resp.Header.Get(HeaderRequestID), body["requestId"])
		})
	}
}

func TestEntry_ServerErrorDetails(t *testing.T) {
	exec := staticExecutor(batch(t, entrySlot, blockedSlot, metadataSlot))
	cfg := provider.NewConfigBuilder().SetBaseURL(testBase).SetKS("ks").SetExecutor(exec).Build()
	srv := newTestServer(t, cfg, Options{})

	_, body := get(t, srv.URL+"/api/v1/entries/1_x")
	assert.Equal(t, map[string]any{
		"code":    "COUNTRY_RESTRICTED",
		"message": "Not available in your country",
	}, body["details"])
}

func TestEntry_UsesCachedSession(t *testing.T) {
	var sessions, batches atomic.Int32
	var batchBody atomic.Value
	sessionReply := fragment(t, sessionSlot)
	batchReply := batch(t, entrySlot, contextSlot, metadataSlot)
	exec := request.ExecutorFunc(func(_ context.Context, req *request.Request) request.Response {
		if req.Operation == "session.startWidgetSession" {
			sessions.Add(1)
			return request.Response{Body: sessionReply}
		}
		batches.Add(1)
		batchBody.Store(string(req.Body))
		return request.Response{Body: batchReply}
	})
	cfg := provider.NewConfigBuilder().SetBaseURL(testBase).SetPartnerID(testPartner).SetExecutor(exec).Build()
	srv := newTestServer(t, cfg, Options{Sessions: session.NewFetcher(exec, session.WithCache(newMemoryCache(t)))})

	for i := 0; i < 3; i++ {
		resp, _ := get(t, srv.URL+"/api/v1/entries/1_w9zx2eti")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, int32(1), sessions.Load(), "token is fetched once and cached")
	assert.Equal(t, int32(3), batches.Load())
	body, _ := batchBody.Load().(string)
	assert.Contains(t, body, "djJ8c2Vzc2lvbg")
	assert.NotContains(t, body, "startWidgetSession", "batch carries no bootstrap call when a token is cached")
}

func TestEntry_RateLimited(t *testing.T) {
	exec := staticExecutor(batch(t, entrySlot, contextSlot, metadataSlot))
	cfg := provider.NewConfigBuilder().SetBaseURL(testBase).SetKS("ks").SetExecutor(exec).Build()
	srv := newTestServer(t, cfg, Options{RateLimit: 1})

	first, _ := get(t, srv.URL+"/api/v1/entries/1_w9zx2eti")
	assert.Equal(t, http.StatusOK, first.StatusCode)
	second, body := get(t, srv.URL+"/api/v1/entries/1_w9zx2eti")
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.NotEmpty(t, second.Header.Get("Retry-After"))
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, provider.NewConfigBuilder().Build(), Options{Version: "v1.2.3"})

	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "v1.2.3", body["version"])

	resp, body = get(t, srv.URL+"/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ready"])

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
}

func TestReadyz_BreakerOpen(t *testing.T) {
	hm := health.NewManager("test")
	hm.RegisterChecker(health.NewBreakerChecker("upstream", func() resilience.State { return resilience.StateOpen }))
	srv := newTestServer(t, provider.NewConfigBuilder().Build(), Options{Health: hm})

	resp, body := get(t, srv.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, false, body["ready"])
}

func TestRequestID_Propagated(t *testing.T) {
	srv := newTestServer(t, provider.NewConfigBuilder().Build(), Options{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderRequestID, "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(HeaderRequestID))
}

func TestRecoverer(t *testing.T) {
	h := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal", body.Error)
	assert.Equal(t, rec.Header().Get(HeaderRequestID), body.RequestID)
}
