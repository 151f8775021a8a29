// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ovpmedia_http_request_duration_seconds",
		Help:    "HTTP API request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ovpmedia_http_requests_in_flight",
		Help: "Current number of HTTP API requests being served",
	})
)

// ObserveHTTPRequest records one served API request. path must be the
// route pattern, not the raw URL.
func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// HTTPRequestStarted increments the in-flight gauge and returns the matching
// decrement.
func HTTPRequestStarted() func() {
	httpRequestsInFlight.Inc()
	return httpRequestsInFlight.Dec
}
