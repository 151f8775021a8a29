// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package provider

import (
	"errors"
	"fmt"
)

// ErrorDomain identifies errors raised by this package.
const ErrorDomain = "ovpmedia.provider"

// Code is the stable numeric identifier of an error kind.
type Code int

const (
	CodeInvalidParam Code = iota
	CodeInvalidKS
	CodeInvalidParams
	CodeInvalidResponse
	CodeCurrentlyProcessingOtherRequest
	CodeServerError
)

func (c Code) String() string {
	switch c {
	case CodeInvalidParam:
		return "invalidParam"
	case CodeInvalidKS:
		return "invalidKS"
	case CodeInvalidParams:
		return "invalidParams"
	case CodeInvalidResponse:
		return "invalidResponse"
	case CodeCurrentlyProcessingOtherRequest:
		return "currentlyProcessingOtherRequest"
	case CodeServerError:
		return "serverError"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrInvalidParam                    = errors.New("ovpmedia.provider: invalid param")
	ErrInvalidKS                       = errors.New("ovpmedia.provider: invalid ks")
	ErrInvalidParams                   = errors.New("ovpmedia.provider: invalid params")
	ErrInvalidResponse                 = errors.New("ovpmedia.provider: invalid response")
	ErrCurrentlyProcessingOtherRequest = errors.New("ovpmedia.provider: currently processing other request")
	ErrServerError                     = errors.New("ovpmedia.provider: server error")
)

// Error is the only error type delivered to load callbacks.
type Error struct {
	Code          Code
	Param         string // invalidParam only
	ServerCode    string // serverError only
	ServerMessage string // serverError only
	Cause         error  // lower-level error, if any
}

func (e *Error) Error() string {
	var msg string
	switch e.Code {
	case CodeInvalidParam:
		msg = "Invalid input param: " + e.Param
	case CodeInvalidKS:
		msg = "Invalid input ks"
	case CodeInvalidParams:
		msg = "Invalid input params"
	case CodeInvalidResponse:
		msg = "Response data is empty"
	case CodeCurrentlyProcessingOtherRequest:
		msg = "Currently Processing Other Request"
	case CodeServerError:
		msg = fmt.Sprintf("Server Error code: %s, message: %s", e.ServerCode, e.ServerMessage)
	default:
		msg = e.Code.String()
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Message is the human message without the cause.
func (e *Error) Message() string {
	return (&Error{Code: e.Code, Param: e.Param, ServerCode: e.ServerCode, ServerMessage: e.ServerMessage}).Error()
}

func (e *Error) Domain() string { return ErrorDomain }

// Unwrap exposes the kind's sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Cause}
}

func (e *Error) sentinel() error {
	switch e.Code {
	case CodeInvalidParam:
		return ErrInvalidParam
	case CodeInvalidKS:
		return ErrInvalidKS
	case CodeInvalidParams:
		return ErrInvalidParams
	case CodeInvalidResponse:
		return ErrInvalidResponse
	case CodeCurrentlyProcessingOtherRequest:
		return ErrCurrentlyProcessingOtherRequest
	default:
		return ErrServerError
	}
}

// UserInfo carries the backend code and message of a server error; nil for
// other kinds.
func (e *Error) UserInfo() map[string]string {
	if e.Code != CodeServerError {
		return nil
	}
	return map[string]string{"code": e.ServerCode, "message": e.ServerMessage}
}

func InvalidParam(name string) *Error { return &Error{Code: CodeInvalidParam, Param: name} }
func InvalidKS(cause error) *Error {
	return &Error{Code: CodeInvalidKS, Cause: cause}
}
func InvalidParams(cause error) *Error {
	return &Error{Code: CodeInvalidParams, Cause: cause}
}
func InvalidResponse(cause error) *Error {
	return &Error{Code: CodeInvalidResponse, Cause: cause}
}
func CurrentlyProcessingOtherRequest() *Error {
	return &Error{Code: CodeCurrentlyProcessingOtherRequest}
}
func ServerError(code, message string) *Error {
	return &Error{Code: CodeServerError, ServerCode: code, ServerMessage: message}
}
