package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

const errorBodyLimit = 2048

// StatusError describes a non-2xx HTTP response.
type StatusError struct {
	Service    string
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Service, e.Operation, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap exposes the marker matching the status code.
func (e *StatusError) Unwrap() error {
	return MarkerForStatus(e.StatusCode)
}

// MarkerForStatus classifies an HTTP status code.
func MarkerForStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return ErrTransient
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrConfiguration
	default:
		return ErrExternal
	}
}

// CheckResponse returns nil for 2xx responses and a *StatusError otherwise.
// A bounded prefix of the body is kept for diagnostics.
func CheckResponse(resp *http.Response, service, operation string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &StatusError{
		Service:    service,
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// ClassifyTransport wraps a failed round trip. Timeouts and connection
// failures are retryable; caller cancellation is not.
func ClassifyTransport(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", service, operation, err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return Wrap(ErrTimeout, service, operation, "request timed out", err)
	}
	return Wrap(ErrTransient, service, operation, "request failed", err)
}

// UserAgent is sent by every outbound client.
const UserAgent = "seasonsweep/0.1"
