package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type cliTestEnv struct {
	configPath string
	stateDir   string
	sonarr     *fakeSonarr
}

// fakeSonarr serves one series with one watched, long-aired season.
type fakeSonarr struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeSonarr) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *fakeSonarr) Mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, req := range f.requests {
		if !strings.HasPrefix(req, http.MethodGet) {
			out = append(out, req)
		}
	}
	return out
}

func (f *fakeSonarr) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	switch {
	case r.URL.Path == "/api/v3/system/status":
		_, _ = io.WriteString(w, `{"version":"4.0.1"}`)
	case r.URL.Path == "/api/v3/tag":
		_, _ = io.WriteString(w, `[{"id":3,"label":"keep"}]`)
	case r.URL.Path == "/api/v3/series":
		_, _ = io.WriteString(w, `[{"id":1,"title":"Show","tags":[],"seasons":[
			{"seasonNumber":1,"monitored":true,"statistics":{"previousAiring":"2024-01-01T00:00:00Z","sizeOnDisk":10}}]}]`)
	case r.URL.Path == "/api/v3/series/1":
		if r.Method == http.MethodPut {
			_, _ = io.Copy(io.Discard, r.Body)
		}
		_, _ = io.WriteString(w, `{"id":1,"title":"Show","seasons":[{"seasonNumber":1,"monitored":true}]}`)
	case r.URL.Path == "/api/v3/episodefile":
		_, _ = io.WriteString(w, `[{"id":5,"seriesId":1,"seasonNumber":1,"path":"/tv/a.mkv","size":10}]`)
	case r.URL.Path == "/api/v3/episodefile/5" && r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func newPlexServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			_, _ = io.WriteString(w, `<MediaContainer><Directory key="1" type="show" title="TV"/></MediaContainer>`)
		case "/library/sections/1/all":
			_, _ = io.WriteString(w, `<MediaContainer><Directory key="/library/metadata/1/children" type="show" title="Show"/></MediaContainer>`)
		default:
			_, _ = io.WriteString(w, `<MediaContainer><Directory type="season" title="Season 1" parentTitle="Show" leafCount="1" viewedLeafCount="1"/></MediaContainer>`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("SONARR_API_KEY", "")
	t.Setenv("PLEX_TOKEN", "")

	sonarr := &fakeSonarr{}
	sonarrSrv := httptest.NewServer(sonarr)
	t.Cleanup(sonarrSrv.Close)
	plexSrv := newPlexServer(t)

	base := t.TempDir()
	stateDir := filepath.Join(base, "state")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`viewer = "plex"

[sonarr]
url = "%s/api/v3/"
api_key = "test-key"
delete_max_attempts = 2
delete_initial_backoff = "1ms"
delete_max_backoff = "2ms"

[plex]
url = "%s/"
token = "test-token"

[retention]
retain_duration = "1 day"

[paths]
state_dir = %q

[logging]
level = "error"

[daemon]
listen = ""
`, sonarrSrv.URL, plexSrv.URL, stateDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configPath: configPath, stateDir: stateDir, sonarr: sonarr}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}
