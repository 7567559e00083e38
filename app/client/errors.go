package client

import (
	"fmt"
	"net/http"
)

// NetworkError means no response was received at all: DNS failure,
// connection refused or timeout. It is the only error class eligible for
// the one-shot production fallback retry.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: could not reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError means the backend answered with a non-2xx status. It is not
// retried automatically.
type ServerError struct {
	Status     int
	StatusText string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d - %s", e.Status, e.StatusText)
}

// NotFoundError is a 404 on a single-resource lookup, kept distinct from
// ServerError so callers can render a not-found state instead of a generic
// failure.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ValidationError reports malformed input on a submission, caught locally
// or reported by the server.
type ValidationError struct {
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("validation failed: %s", e.Detail)
	}
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// responseError maps a received non-2xx response to the error taxonomy.
func responseError(resp *http.Response) error {
	return &ServerError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
}
