// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/ovp/provider"
)

// errorResponse is the body of every non-2xx API reply.
type errorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Domain    string            `json:"domain,omitempty"`
	Code      int               `json:"code"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a provider error kind onto an HTTP status.
func statusFor(perr *provider.Error) int {
	switch perr.Code {
	case provider.CodeInvalidParam, provider.CodeInvalidKS, provider.CodeInvalidParams:
		return http.StatusBadRequest
	case provider.CodeServerError:
		return http.StatusForbidden
	case provider.CodeCurrentlyProcessingOtherRequest:
		return http.StatusConflict
	default:
		if errors.Is(perr, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
}

func writeProviderError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := xglog.RequestIDFromContext(r.Context())

	var perr *provider.Error
	if !errors.As(err, &perr) {
		logger(r).Error().Err(err).Str(xglog.FieldEvent, "api.entry.failed").Msg("unexpected load error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     "internal",
			Message:   "internal server error",
			Code:      -1,
			RequestID: reqID,
		})
		return
	}

	status := statusFor(perr)
	ev := logger(r).Warn()
	if status >= http.StatusInternalServerError {
		ev = logger(r).Error()
	}
	ev.Err(err).
		Str(xglog.FieldEvent, "api.entry.failed").
		Int(xglog.FieldStatusCode, status).
		Msg("media load failed")

	writeJSON(w, status, errorResponse{
		Error:     perr.Code.String(),
		Message:   perr.Message(),
		Domain:    perr.Domain(),
		Code:      int(perr.Code),
		Details:   perr.UserInfo(),
		RequestID: reqID,
	})
}
