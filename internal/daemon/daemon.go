package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"seasonsweep/internal/config"
	"seasonsweep/internal/httpapi"
	"seasonsweep/internal/logging"
	"seasonsweep/internal/runlock"
	"seasonsweep/internal/schedule"
	"seasonsweep/internal/sweep"
)

// Runner executes one sweep pass.
type Runner interface {
	Run(ctx context.Context, opts sweep.Options) (sweep.Result, error)
}

// Daemon coordinates scheduled passes and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	runner  Runner
	logger  *slog.Logger
	version string
	metrics http.Handler

	lock      *runlock.Lock
	scheduler *schedule.Scheduler
	api       *apiServer

	running  atomic.Bool
	sweeping atomic.Bool
	cancel   context.CancelFunc
	passes   sync.WaitGroup

	mu   sync.Mutex
	last *httpapi.RunStatus
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(d *Daemon) { d.metrics = h }
}

// WithVersion sets the version reported on /status.
func WithVersion(version string) Option {
	return func(d *Daemon) { d.version = version }
}

// New constructs a daemon. Nothing is started until Start.
func New(cfg *config.Config, runner Runner, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Daemon{
		cfg:     cfg,
		runner:  runner,
		logger:  logging.NewComponentLogger(logger, "daemon"),
		version: "dev",
		lock:    runlock.New(cfg.LockPath()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Start acquires the run lock, starts the scheduler and the HTTP server, and
// kicks off a startup pass when configured.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.lock.Acquire(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	scheduler, err := schedule.New(d.cfg.Daemon.Schedule, func(jobCtx context.Context) {
		d.sweep(jobCtx, sweep.TriggerSchedule)
	}, d.logger)
	if err != nil {
		cancel()
		_ = d.lock.Release()
		return err
	}
	if err := scheduler.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Release()
		return err
	}

	api := newAPIServer(d.cfg.Daemon.Listen, httpapi.NewServer(d, d.metrics, d.logger), d.logger)
	if err := api.start(runCtx); err != nil {
		scheduler.Stop()
		cancel()
		_ = d.lock.Release()
		return err
	}

	d.scheduler = scheduler
	d.api = api
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("seasonsweep daemon started",
		logging.String("lock", d.lock.Path()),
		logging.String("schedule", d.cfg.Daemon.Schedule),
		logging.Bool("delete_files", d.cfg.Daemon.DeleteFiles),
	)

	if d.cfg.Daemon.RunOnStart {
		d.passes.Add(1)
		go func() {
			defer d.passes.Done()
			d.sweep(runCtx, sweep.TriggerStartup)
		}()
	}
	return nil
}

// Stop cancels any running pass, stops the scheduler and the HTTP server, and
// releases the run lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.scheduler.Stop()
	d.passes.Wait()
	d.api.stop()
	if err := d.lock.Release(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release run lock", "lock_release_failed", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("seasonsweep daemon stopped")
}

// Addr returns the bound HTTP address, or "" when the server is disabled.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status reports the daemon state for /status.
func (d *Daemon) Status() httpapi.Status {
	status := httpapi.Status{
		Version:  d.version,
		Schedule: d.cfg.Daemon.Schedule,
		Sweeping: d.sweeping.Load(),
	}
	if d.scheduler != nil {
		status.NextRun = d.scheduler.NextRun()
	}
	d.mu.Lock()
	if d.last != nil {
		last := *d.last
		status.LastRun = &last
	}
	d.mu.Unlock()
	return status
}

// sweep runs one pass unless another is in flight.
func (d *Daemon) sweep(ctx context.Context, trigger string) {
	if !d.sweeping.CompareAndSwap(false, true) {
		d.logger.Info("sweep already in progress; skipping", logging.String(logging.FieldTrigger, trigger))
		return
	}
	defer d.sweeping.Store(false)

	result, err := d.runner.Run(ctx, sweep.Options{
		DeleteFiles: d.cfg.Daemon.DeleteFiles,
		Trigger:     trigger,
	})
	status := runStatus(result, err)
	d.mu.Lock()
	d.last = &status
	d.mu.Unlock()
}

func runStatus(result sweep.Result, err error) httpapi.RunStatus {
	summary := result.Summary
	status := httpapi.RunStatus{
		RunID:          result.RunID,
		Trigger:        result.Trigger,
		DryRun:         result.DryRun,
		Started:        result.Started,
		Finished:       result.Finished,
		SeasonsPlanned: summary.SeasonsPlanned,
		FilesDeleted:   summary.FilesDeleted,
		BytesReclaimed: summary.BytesReclaimed,
		Failures:       len(summary.Failures),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}
