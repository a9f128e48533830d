package services_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"seasonsweep/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "sonarr", "delete episode file", "failed", base)
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"sonarr", "delete episode file", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err)
	}
}

func TestMarkerForStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusNotFound, services.ErrNotFound},
		{http.StatusInternalServerError, services.ErrTransient},
		{http.StatusBadGateway, services.ErrTransient},
		{http.StatusTooManyRequests, services.ErrTransient},
		{http.StatusRequestTimeout, services.ErrTransient},
		{http.StatusUnauthorized, services.ErrConfiguration},
		{http.StatusBadRequest, services.ErrExternal},
		{http.StatusConflict, services.ErrExternal},
	}
	for _, tc := range tests {
		if got := services.MarkerForStatus(tc.code); got != tc.want {
			t.Fatalf("MarkerForStatus(%d): got %v want %v", tc.code, got, tc.want)
		}
	}
}

func TestCheckResponse(t *testing.T) {
	ok := &http.Response{StatusCode: http.StatusNoContent, Body: io.NopCloser(strings.NewReader(""))}
	if err := services.CheckResponse(ok, "sonarr", "ping"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := &http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(strings.NewReader(" maintenance \n"))}
	err := services.CheckResponse(bad, "sonarr", "ping")
	var statusErr *services.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if statusErr.Body != "maintenance" {
		t.Fatalf("unexpected body: got %q want %q", statusErr.Body, "maintenance")
	}
	if !services.IsRetryable(err) {
		t.Fatalf("expected 503 to be retryable: %v", err)
	}
}

func TestClassifyTransport(t *testing.T) {
	if err := services.ClassifyTransport("plex", "list", context.Canceled); services.IsRetryable(err) {
		t.Fatalf("cancellation must not be retryable: %v", err)
	}
	if err := services.ClassifyTransport("plex", "list", context.DeadlineExceeded); !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
	if err := services.ClassifyTransport("plex", "list", errors.New("connection refused")); !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if services.ClassifyTransport("plex", "list", nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}
