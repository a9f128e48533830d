package daemon_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"seasonsweep/internal/daemon"
	"seasonsweep/internal/httpapi"
	"seasonsweep/internal/runlock"
	"seasonsweep/internal/sweep"
	"seasonsweep/internal/testsupport"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []sweep.Options
	err   error
	ran   chan struct{}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{ran: make(chan struct{}, 8)}
}

func (f *fakeRunner) Run(_ context.Context, opts sweep.Options) (sweep.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.mu.Unlock()
	result := sweep.Result{RunID: "run-1", Trigger: opts.Trigger, DryRun: !opts.DeleteFiles, Err: f.err}
	result.Summary.SeasonsPlanned = 2
	result.Summary.FilesDeleted = 5
	f.ran <- struct{}{}
	return result, f.err
}

func (f *fakeRunner) Calls() []sweep.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sweep.Options(nil), f.calls...)
}

func waitForRun(t *testing.T, runner *fakeRunner) {
	t.Helper()
	select {
	case <-runner.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pass")
	}
}

func fetchStatus(t *testing.T, addr string) httpapi.Status {
	t.Helper()
	resp, err := http.Get("http://" + addr + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()
	var status httpapi.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return status
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Daemon.Schedule = "@every 1h"
	runner := newFakeRunner()

	d, err := daemon.New(cfg, runner, nil, daemon.WithVersion("1.2.3"))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	status := fetchStatus(t, d.Addr())
	if status.Version != "1.2.3" || status.Schedule != "@every 1h" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.NextRun == nil {
		t.Fatal("expected next run while scheduled")
	}
	if status.LastRun != nil {
		t.Fatalf("expected no last run, got %+v", status.LastRun)
	}

	d.Stop()
	if len(runner.Calls()) != 0 {
		t.Fatalf("expected no passes, got %d", len(runner.Calls()))
	}
	if got := d.Status().NextRun; got != nil {
		t.Fatalf("expected no next run after stop, got %v", got)
	}
}

func TestDaemonHoldsRunLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, newFakeRunner(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	other := runlock.New(cfg.LockPath())
	if err := other.Acquire(); !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked while daemon runs, got %v", err)
	}

	d.Stop()
	if err := other.Acquire(); err != nil {
		t.Fatalf("expected lock after stop: %v", err)
	}
	_ = other.Release()
}

func TestDaemonRunOnStartRecordsLastRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Daemon.RunOnStart = true
	cfg.Daemon.DeleteFiles = true
	runner := newFakeRunner()
	runner.err = errors.New("sonarr unreachable")

	d, err := daemon.New(cfg, runner, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()
	waitForRun(t, runner)

	deadline := time.Now().Add(5 * time.Second)
	var status httpapi.Status
	for time.Now().Before(deadline) {
		status = d.Status()
		if status.LastRun != nil && !status.Sweeping {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	last := status.LastRun
	if last == nil {
		t.Fatal("expected last run to be recorded")
	}
	if last.Trigger != sweep.TriggerStartup || last.DryRun || last.FilesDeleted != 5 || last.Error != "sonarr unreachable" {
		t.Fatalf("unexpected last run: %+v", last)
	}
	calls := runner.Calls()
	if len(calls) != 1 || !calls[0].DeleteFiles {
		t.Fatalf("unexpected runner calls: %+v", calls)
	}
}

func TestDaemonWithoutListener(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Daemon.Listen = ""
	d, err := daemon.New(cfg, newFakeRunner(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()
	if addr := d.Addr(); addr != "" {
		t.Fatalf("expected no listener, got %q", addr)
	}
}

func TestDaemonRejectsBadSchedule(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Daemon.Schedule = "every tuesday"
	d, err := daemon.New(cfg, newFakeRunner(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err == nil {
		d.Stop()
		t.Fatal("expected invalid schedule error")
	}

	lock := runlock.New(cfg.LockPath())
	if err := lock.Acquire(); err != nil {
		t.Fatalf("expected lock released after failed start: %v", err)
	}
	_ = lock.Release()
}
