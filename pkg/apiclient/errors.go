package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrTimeout marks a request cancelled by the dispatcher's deadline. Use
// errors.Is to detect it; it is deliberately distinct from TransportError so
// callers can treat slow upstreams differently from unreachable ones.
var ErrTimeout = errors.New("request timed out")

// HTTPError is a non-2xx response from the target. The message comes from the
// response body when it carries one, so domain rejections ("invalid
// credentials") surface verbatim.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

// TransportError is a network-level failure: DNS, refused connection, reset.
// The request may never have reached the target, so these are candidates for
// retry in a way HTTPErrors are not.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport failure: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// errorFromResponse builds an HTTPError from a non-2xx response body. It
// prefers a "message" field, falls back to "error", and finally to a generic
// status line when the body is not JSON or carries neither.
func errorFromResponse(status int, body []byte) *HTTPError {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return &HTTPError{Status: status, Message: envelope.Message}
		}
		if envelope.Error != "" {
			return &HTTPError{Status: status, Message: envelope.Error}
		}
	}
	return &HTTPError{Status: status, Message: fmt.Sprintf("HTTP error! status: %d", status)}
}
