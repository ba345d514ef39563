package api

import (
	"errors"
	"fmt"
)

// NetworkStatus is the status carried by synthesized errors for calls that
// never produced an HTTP response. No server can declare status 0, so
// callers can always tell "the backend rejected this" apart from "the
// backend was unreachable".
const NetworkStatus = 0

const networkErrorCode = "Network Error"

// Error is the canonical failure shape shared by every backend service:
// {status, error, message}. Transport failures are normalized into the same
// shape with Status == NetworkStatus.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Code, e.Status)
}

// IsNetwork reports whether the error was synthesized client-side because
// no usable response was received.
func (e *Error) IsNetwork() bool {
	return e.Status == NetworkStatus
}

func networkError(err error) *Error {
	return &Error{
		Status:  NetworkStatus,
		Code:    networkErrorCode,
		Message: err.Error(),
	}
}

// AsError unwraps err into the canonical service error, if it is one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
