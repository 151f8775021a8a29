// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldLoadID        = "load_id"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOperation = "operation"

	// Catalog fields
	FieldEntryID           = "entry_id"
	FieldPartnerID         = "partner_id"
	FieldUIConfID          = "uiconf_id"
	FieldDeliveryProfileID = "delivery_profile_id"
	FieldFormat            = "format"
	FieldScheme            = "drm_scheme"
	FieldKS                = "ks"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Transport fields
	FieldBaseURL    = "base_url"
	FieldStatusCode = "status_code"
	FieldBatchSize  = "batch_size"
	FieldSlot       = "slot"
)
