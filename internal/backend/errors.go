// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/facegate/internal/platform/apperr"
)

// Kind classifies a failed backend call.
type Kind int

const (
	// KindHTTP is a response with a non-2xx status.
	KindHTTP Kind = iota + 1
	// KindNetwork is a call that never produced a response (refused, timeout, reset).
	KindNetwork
	// KindMalformed is a 2xx response the portal cannot use: not JSON, not
	// decodable, or not the expected shape.
	KindMalformed
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is a failed backend call.
type Error struct {
	Kind Kind
	// Op is the operation name, e.g. "login".
	Op string
	// Status is the HTTP status for KindHTTP (and KindMalformed when known).
	Status int
	// Message is the backend's own error text for KindHTTP, safe to show.
	Message string
	// Field names the form input the backend blamed, when it did.
	Field string
	// Err is the underlying transport or decoding error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("backend %s: status %d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("backend %s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap exposes the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown to the person at the browser.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindHTTP:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("Request failed (%d %s)", e.Status, http.StatusText(e.Status))
	case KindNetwork:
		return "Network error: could not reach the recognition service. Please try again."
	default:
		return "The recognition service sent an unexpected response. Please try again later."
	}
}

// AppError maps the failure onto the portal's JSON error contract.
func (e *Error) AppError() *apperr.AppError {
	switch e.Kind {
	case KindHTTP:
		status := e.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		ae := &apperr.AppError{
			Code:       "UPSTREAM_REJECTED",
			Message:    e.UserMessage(),
			HTTPStatus: status,
			Cause:      e,
		}
		if e.Field != "" {
			ae.Details = []apperr.FieldError{{Field: e.Field, Message: e.UserMessage()}}
		}
		return ae
	case KindNetwork:
		ae := apperr.ServiceUnavailable(e.UserMessage())
		ae.Cause = e
		return ae
	default:
		return apperr.BadGateway(e.UserMessage(), e)
	}
}

// AsError extracts the [*Error] from err's chain, or nil.
func AsError(err error) *Error {
	var backendErr *Error
	if errors.As(err, &backendErr) {
		return backendErr
	}
	return nil
}

// IsKind reports whether err is a backend failure of the given kind.
func IsKind(err error, kind Kind) bool {
	backendErr := AsError(err)
	return backendErr != nil && backendErr.Kind == kind
}

// IsStatus reports whether err is a KindHTTP failure with the given status.
func IsStatus(err error, status int) bool {
	backendErr := AsError(err)
	return backendErr != nil && backendErr.Kind == KindHTTP && backendErr.Status == status
}

// Translate converts a backend failure into its [*apperr.AppError] and
// returns any other error unchanged. JSON handlers pass errors through it
// before responding.
func Translate(err error) error {
	if backendErr := AsError(err); backendErr != nil {
		return backendErr.AppError()
	}
	return err
}
