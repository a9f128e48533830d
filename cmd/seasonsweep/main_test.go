package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seasonsweep/internal/report"
	"seasonsweep/internal/runlock"
)

func TestVersionSkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, "-c", filepath.Join(t.TempDir(), "missing.toml"), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "seasonsweep dev")
}

func TestRunExitCodes(t *testing.T) {
	if code := run(context.Background(), []string{"version"}); code != 0 {
		t.Fatalf("unexpected exit code for version: %d", code)
	}
	if code := run(context.Background(), []string{"no-such-command"}); code != 1 {
		t.Fatalf("unexpected exit code for unknown command: %d", code)
	}
}

func TestTVDryRunMakesNoMutations(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, "-c", env.configPath, "tv")
	if err != nil {
		t.Fatalf("tv: %v", err)
	}
	requireContains(t, out, "would delete 1 files: Show S01: 10 B")
	requireContains(t, out, "Dry run")
	if muts := env.sonarr.Mutations(); len(muts) != 0 {
		t.Fatalf("dry run sent mutations: %v", muts)
	}
}

func TestTVDeleteFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, "-c", env.configPath, "tv", "-f")
	if err != nil {
		t.Fatalf("tv -f: %v", err)
	}
	requireContains(t, out, "delete 1 files: Show S01: 10 B")
	muts := env.sonarr.Mutations()
	want := []string{"PUT /api/v3/series/1", "DELETE /api/v3/episodefile/5"}
	if len(muts) != len(want) || muts[0] != want[0] || muts[1] != want[1] {
		t.Fatalf("unexpected mutations: got %v want %v", muts, want)
	}
}

func TestTVJSONReport(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, "-c", env.configPath, "tv", "--json")
	if err != nil {
		t.Fatalf("tv --json: %v", err)
	}
	var doc report.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if !doc.DryRun || len(doc.Lines) != 1 || doc.Lines[0].SeriesTitle != "Show" || doc.Totals.Size != 10 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestTVRetainForOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, "-c", env.configPath, "tv", "--retain-for", "100000 days")
	if err != nil {
		t.Fatalf("tv --retain-for: %v", err)
	}
	requireContains(t, out, "Nothing to clean up.")
}

func TestTVRefusesWhenLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	lock := runlock.New(filepath.Join(env.stateDir, "seasonsweep.lock"))
	if err := lock.Acquire(); err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer func() { _ = lock.Release() }()

	_, _, err := runCLI(t, "-c", env.configPath, "tv", "-f")
	if !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if muts := env.sonarr.Mutations(); len(muts) != 0 {
		t.Fatalf("locked run sent mutations: %v", muts)
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, "-c", env.configPath, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "Reachable (v4.0.1)")
	requireContains(t, out, "1 seasons, 1 fully watched")
}

func TestCheckNotifyWithoutTopicWarns(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, "-c", env.configPath, "check", "--notify")
	if err != nil {
		t.Fatalf("check --notify: %v", err)
	}
	requireContains(t, out, "[WARN] ntfy topic not configured")
}

func TestMissingAPIKeyFails(t *testing.T) {
	env := setupCLITestEnv(t)
	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	stripped := []byte(replaceLine(string(content), `api_key = "test-key"`, `api_key = ""`))
	if err := os.WriteFile(env.configPath, stripped, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err = runCLI(t, "-c", env.configPath, "tv")
	if err == nil {
		t.Fatal("expected configuration error")
	}
	requireContains(t, err.Error(), "sonarr.api_key is required")
}
