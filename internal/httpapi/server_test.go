package httpapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seasonsweep/internal/httpapi"
)

type staticStatus struct{ status httpapi.Status }

func (s staticStatus) Status() httpapi.Status { return s.status }

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(httpapi.NewServer(nil, nil, nil).Router())
	defer srv.Close()

	resp, body := get(t, srv, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if string(body) != "{\"status\":\"ok\"}\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestStatus(t *testing.T) {
	next := time.Date(2024, 6, 2, 4, 0, 0, 0, time.UTC)
	provider := staticStatus{status: httpapi.Status{
		Version:  "dev",
		Schedule: "0 4 * * *",
		NextRun:  &next,
		LastRun:  &httpapi.RunStatus{RunID: "r1", FilesDeleted: 3, Error: "boom"},
	}}
	srv := httptest.NewServer(httpapi.NewServer(provider, nil, nil).Router())
	defer srv.Close()

	resp, body := get(t, srv, "/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var decoded httpapi.Status
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Schedule != "0 4 * * *" || decoded.LastRun == nil || decoded.LastRun.FilesDeleted != 3 {
		t.Fatalf("unexpected status payload: %s", body)
	}
	if decoded.NextRun == nil || !decoded.NextRun.Equal(next) {
		t.Fatalf("unexpected next run: %v", decoded.NextRun)
	}
}

func TestStatusUnavailable(t *testing.T) {
	srv := httptest.NewServer(httpapi.NewServer(nil, nil, nil).Router())
	defer srv.Close()
	if resp, _ := get(t, srv, "/status"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestMetricsMountedOnlyWhenProvided(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "seasonsweep_runs_total 1\n")
	})
	srv := httptest.NewServer(httpapi.NewServer(nil, metrics, nil).Router())
	defer srv.Close()
	if resp, body := get(t, srv, "/metrics"); resp.StatusCode != http.StatusOK || string(body) != "seasonsweep_runs_total 1\n" {
		t.Fatalf("unexpected metrics response: %d %q", resp.StatusCode, body)
	}

	bare := httptest.NewServer(httpapi.NewServer(nil, nil, nil).Router())
	defer bare.Close()
	if resp, _ := get(t, bare, "/metrics"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", resp.StatusCode)
	}
}
