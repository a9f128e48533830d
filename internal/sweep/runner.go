package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"seasonsweep/internal/cleanup"
	"seasonsweep/internal/config"
	"seasonsweep/internal/inventory"
	"seasonsweep/internal/logging"
	"seasonsweep/internal/metrics"
	"seasonsweep/internal/notifications"
	"seasonsweep/internal/retention"
	"seasonsweep/internal/services"
)

// Triggers recorded on runs.
const (
	TriggerCLI      = "cli"
	TriggerSchedule = "schedule"
	TriggerStartup  = "startup"
)

// Options control one pass.
type Options struct {
	// DeleteFiles performs mutations; without it the pass is a dry run.
	DeleteFiles bool
	FailFast    bool
	// RetainFor overrides the configured grace period when non-nil.
	RetainFor *time.Duration
	Trigger   string
	Reporter  cleanup.Reporter
}

// Result describes a finished pass.
type Result struct {
	RunID    string
	Trigger  string
	DryRun   bool
	Started  time.Time
	Finished time.Time
	Decision retention.Decision
	Summary  cleanup.Summary
	// Err is the error Run returned, kept for status reporting.
	Err error
}

// Runner executes passes. It is safe to reuse across passes but not for
// concurrent ones; callers serialise through the run lock or the scheduler.
type Runner struct {
	download inventory.DownloadTracker
	watch    inventory.WatchTracker
	cfg      *config.Config
	metrics  *metrics.Collector
	notifier notifications.Service
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetrics records each pass on collector.
func WithMetrics(collector *metrics.Collector) RunnerOption {
	return func(r *Runner) { r.metrics = collector }
}

// WithNotifier overrides the notification service built from config.
func WithNotifier(svc notifications.Service) RunnerOption {
	return func(r *Runner) {
		if svc != nil {
			r.notifier = svc
		}
	}
}

// WithClock injects the time source used for "now".
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator injects the run ID source.
func WithIDGenerator(newID func() string) RunnerOption {
	return func(r *Runner) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// NewRunner creates a runner over the given trackers.
func NewRunner(cfg *config.Config, download inventory.DownloadTracker, watch inventory.WatchTracker, logger *slog.Logger, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil || download == nil || watch == nil {
		return nil, errors.New("sweep runner requires config, download tracker, and watch tracker")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		download: download,
		watch:    watch,
		cfg:      cfg,
		notifier: notifications.NewService(cfg),
		logger:   logging.NewComponentLogger(logger, "sweep"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes one pass. The Result is populated even when an error is
// returned.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	trigger := opts.Trigger
	if trigger == "" {
		trigger = TriggerCLI
	}
	result := Result{
		RunID:   r.newID(),
		Trigger: trigger,
		DryRun:  !opts.DeleteFiles,
		Started: r.now(),
	}
	ctx = services.WithRunID(ctx, result.RunID)
	ctx = services.WithTrigger(ctx, trigger)
	logger := logging.WithContext(ctx, r.logger)

	logger.Info("sweep started",
		logging.Bool("dry_run", result.DryRun),
		logging.String("watch_tracker", r.watch.Name()),
	)

	err := r.run(ctx, logger, opts, &result)
	result.Finished = r.now()
	result.Err = err

	summary := result.Summary
	attrs := []logging.Attr{
		logging.Int("seasons_planned", summary.SeasonsPlanned),
		logging.Int("files_deleted", summary.FilesDeleted),
		logging.String("reclaimed", humanize.IBytes(summary.BytesReclaimed)),
		logging.Int("failures", len(summary.Failures)),
		logging.Duration("duration", result.Finished.Sub(result.Started)),
	}
	if err != nil {
		logging.ErrorWithContext(logger, "sweep finished with errors", "sweep_failed", append(attrs, logging.Error(err))...)
	} else {
		logger.Info("sweep finished", logging.Args(attrs...)...)
	}

	r.record(logger, result)
	r.notify(ctx, logger, result)
	return result, err
}

func (r *Runner) run(ctx context.Context, logger *slog.Logger, opts Options, result *Result) error {
	policy, err := r.policy(ctx, opts, logger)
	if err != nil {
		return err
	}

	seasons, err := r.watch.AllTVSeasons(ctx)
	if err != nil {
		return fmt.Errorf("read watch state from %s: %w", r.watch.Name(), err)
	}
	watched := inventory.NewWatchedSet(seasons)
	logger.Debug("watch state loaded",
		logging.Int("seasons", len(seasons)),
		logging.Int("fully_watched", len(watched)),
	)

	series, err := r.download.FetchAllSeries(ctx)
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}

	decision, err := retention.Decide(series, watched, policy, result.Started)
	if err != nil {
		return err
	}
	result.Decision = decision
	logger.Info("retention decision",
		logging.Int("series", len(decision.Entries)),
		logging.Int("seasons", decision.SeasonCount()),
		logging.String("size", humanize.IBytes(decision.Size())),
	)

	orchestrator := cleanup.New(r.download, opts.Reporter, logger, cleanup.Options{
		DryRun:   result.DryRun,
		FailFast: opts.FailFast,
	})
	summary, err := orchestrator.Execute(ctx, decision)
	result.Summary = summary
	return err
}

func (r *Runner) policy(ctx context.Context, opts Options, logger *slog.Logger) (retention.Policy, error) {
	matcher, err := retention.MatcherByName(r.cfg.Retention.TitleMatch)
	if err != nil {
		return retention.Policy{}, services.Wrap(services.ErrConfiguration, "sweep", "title matcher", "", err)
	}
	policy := retention.Policy{
		RetainFor: r.cfg.Retention.RetainDuration.Std(),
		Matcher:   matcher,
		Logger:    logger,
	}
	if opts.RetainFor != nil {
		policy.RetainFor = *opts.RetainFor
	}

	label := r.cfg.Retention.RetainTag
	if label == "" {
		return policy, nil
	}
	tags, err := r.download.FetchTags(ctx)
	if err != nil {
		return retention.Policy{}, fmt.Errorf("list tags: %w", err)
	}
	tag, ok := tags.Find(label)
	if !ok {
		return retention.Policy{}, services.Wrap(services.ErrConfiguration, "sweep", "resolve retain tag",
			fmt.Sprintf("tag %q is not defined in sonarr", label), nil)
	}
	policy.ExemptTag = &tag
	return policy, nil
}

func (r *Runner) record(logger *slog.Logger, result Result) {
	if r.metrics == nil {
		return
	}
	skipped := make(map[string]int, len(result.Decision.Skipped))
	for reason, count := range result.Decision.Skipped {
		skipped[string(reason)] = count
	}
	r.metrics.Observe(metrics.Run{
		Trigger:        result.Trigger,
		DryRun:         result.DryRun,
		Started:        result.Started,
		Finished:       result.Finished,
		SeasonsPlanned: result.Summary.SeasonsPlanned,
		Skipped:        skipped,
		FilesDeleted:   result.Summary.FilesDeleted,
		BytesReclaimed: result.Summary.BytesReclaimed,
		Failures:       len(result.Summary.Failures),
		Err:            result.Err,
	})
	if path := r.cfg.Metrics.Textfile; path != "" {
		if err := r.metrics.WriteTextfile(path); err != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_textfile_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "node_exporter will report stale values"),
			)
		}
	}
}

func (r *Runner) notify(ctx context.Context, logger *slog.Logger, result Result) {
	event, ok := r.notificationEvent(result)
	if !ok {
		return
	}
	mode := "delete"
	if result.DryRun {
		mode = "dry run"
	}
	payload := notifications.Payload{
		"mode":      mode,
		"seasons":   result.Summary.SeasonsPlanned,
		"files":     result.Summary.FilesDeleted,
		"reclaimed": humanize.IBytes(result.Summary.BytesReclaimed),
		"failures":  len(result.Summary.Failures),
	}
	if result.Err != nil && len(result.Summary.Failures) == 0 {
		payload["error"] = result.Err.Error()
	}
	// Deliver even when the pass was cancelled.
	notifyCtx := context.WithoutCancel(ctx)
	if err := r.notifier.Publish(notifyCtx, event, payload); err != nil {
		logging.WarnWithContext(logger, "notification not delivered", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}

func (r *Runner) notificationEvent(result Result) (notifications.Event, bool) {
	policy := r.cfg.Notifications
	if result.Err != nil {
		return notifications.EventSweepFailed, policy.OnFailure
	}
	if result.DryRun && !policy.OnDryRun {
		return "", false
	}
	if result.Summary.SeasonsPlanned == 0 {
		return "", false
	}
	return notifications.EventSweepCompleted, policy.OnSuccess
}
