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
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovpmedia_loads_total",
		Help: "Media loads by outcome (ok or provider error kind)",
	}, []string{"result"})

	loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ovpmedia_load_duration_seconds",
		Help:    "Duration of media loads from validation to callback",
		Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 10),
	}, []string{"result"})

	batchRequests = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ovpmedia_batch_requests",
		Help:    "Number of API calls carried by one multi-request",
		Buckets: []float64{1, 2, 3, 4, 5, 8},
	})

	sourcesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovpmedia_sources_resolved_total",
		Help: "Playback sources resolved by media format",
	}, []string{"format"})

	sourcesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovpmedia_sources_dropped_total",
		Help: "Playback sources discarded during resolution",
	}, []string{"reason"}) // unsupported_format|no_url

	drmDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovpmedia_drm_dropped_total",
		Help: "DRM descriptors discarded during resolution",
	}, []string{"reason"}) // no_scheme|fairplay_incomplete

	metadataDocuments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovpmedia_metadata_documents_total",
		Help: "Embedded metadata documents processed by outcome",
	}, []string{"result"}) // ok|malformed
)

// RecordLoad records the outcome of one media load.
func RecordLoad(result string, d time.Duration) {
	loadsTotal.WithLabelValues(result).Inc()
	loadDuration.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveBatchSize records how many requests one batch carried.
func ObserveBatchSize(n int) {
	batchRequests.Observe(float64(n))
}

// IncSourceResolved counts a playable source of the given format.
func IncSourceResolved(format string) {
	sourcesResolved.WithLabelValues(format).Inc()
}

// IncSourceDropped counts a discarded source.
func IncSourceDropped(reason string) {
	sourcesDropped.WithLabelValues(reason).Inc()
}

// IncDRMDropped counts a discarded DRM descriptor.
func IncDRMDropped(reason string) {
	drmDropped.WithLabelValues(reason).Inc()
}

// IncMetadataDocument counts one processed metadata document.
func IncMetadataDocument(result string) {
	metadataDocuments.WithLabelValues(result).Inc()
}
