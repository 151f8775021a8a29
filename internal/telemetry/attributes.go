// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Catalog attributes
	EntryIDKey   = "ovp.entry_id"
	PartnerIDKey = "ovp.partner_id"
	BootstrapKey = "ovp.session_bootstrap"
	SourcesKey   = "ovp.sources"

	// Batch attributes
	BatchSizeKey    = "ovp.batch.size"
	BatchServiceKey = "ovp.batch.services"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// EntryAttributes describes the catalog entry a load is resolving.
func EntryAttributes(entryID string, partnerID int64, bootstrap bool) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if entryID != "" {
		attrs = append(attrs, attribute.String(EntryIDKey, entryID))
	}
	if partnerID > 0 {
		attrs = append(attrs, attribute.Int64(PartnerIDKey, partnerID))
	}
	return append(attrs, attribute.Bool(BootstrapKey, bootstrap))
}

// BatchAttributes describes one multi-request.
func BatchAttributes(services []string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(BatchSizeKey, len(services)),
		attribute.StringSlice(BatchServiceKey, services),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
