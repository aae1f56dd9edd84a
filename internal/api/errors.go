// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Typed errors and the error-normalization boundary.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// GenericFailure is the error text used when a failed response carries
// no message field. Callers surface it verbatim.
const GenericFailure = "Request failed"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the garage API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeHTTP
	ErrTypeDecode
	ErrTypeValidation
	ErrTypeNotFound
	ErrTypeSessionClosed
)

// Sentinel errors for easy checking.
var (
	ErrBackendUnavailable = &ClientError{Type: ErrTypeConnection, Message: "garage backend is not reachable"}
	ErrTimeout            = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNotFound           = &ClientError{Type: ErrTypeNotFound, Message: "not found"}
	ErrSessionClosed      = &ClientError{Type: ErrTypeSessionClosed, Message: "This chat session is closed"}
)

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsSessionClosed checks if an error means the chat session is closed.
func IsSessionClosed(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeSessionClosed
	}
	return errors.Is(err, ErrSessionClosed)
}

// IsUnavailable checks if an error indicates the backend is unreachable.
func IsUnavailable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return errors.Is(err, ErrBackendUnavailable)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsValidation checks if an error is a client-side validation failure.
func IsValidation(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeValidation
	}
	return false
}

// UserMessage extracts the user-facing text from any error returned by
// this package. Controllers surface this string; they never branch on
// raw error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return err.Error()
}

// =============================================================================
// RESPONSE NORMALIZATION
// =============================================================================

// errorBody is the JSON shape failed endpoints respond with. Most
// endpoints answer {"message": ...}; the car lookup and the chat
// message endpoints answer {"error": ...}.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// normalizeHTTPError turns a non-2xx response into a ClientError. The
// parsed body's message field wins, then its error field, else the
// generic fallback. The body is consumed.
func normalizeHTTPError(resp *http.Response) *ClientError {
	var body errorBody
	message := GenericFailure
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
		switch {
		case body.Message != "":
			message = body.Message
		case body.Error != "":
			message = body.Error
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return &ClientError{Type: ErrTypeNotFound, Message: message}
	}
	return &ClientError{Type: ErrTypeHTTP, Message: message}
}
