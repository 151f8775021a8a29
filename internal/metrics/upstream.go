// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ovpmedia_upstream_request_duration_seconds",
		Help:    "Duration of OVP API HTTP exchanges",
		Buckets: prometheus.ExponentialBuckets(0.05, 2.0, 8),
	}, []string{"operation", "status"})

	upstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovpmedia_upstream_request_failures_total",
		Help: "Number of failed OVP API exchanges by error class",
	}, []string{"operation", "error_class"})

	upstreamSuccess = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovpmedia_upstream_request_success_total",
		Help: "Number of successful OVP API exchanges",
	}, []string{"operation"})
)

// RecordUpstream records one exchange with the OVP backend.
func RecordUpstream(operation string, status int, d time.Duration, errClass string) {
	statusLabel := "0"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	upstreamDuration.WithLabelValues(operation, statusLabel).Observe(d.Seconds())
	if errClass == "" || errClass == "ok" {
		upstreamSuccess.WithLabelValues(operation).Inc()
		return
	}
	upstreamFailures.WithLabelValues(operation, errClass).Inc()
}
