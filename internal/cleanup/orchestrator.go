package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/logging"
	"seasonsweep/internal/report"
	"seasonsweep/internal/retention"
)

// Options controls how a decision is executed.
type Options struct {
	// DryRun reports without mutating anything.
	DryRun bool
	// FailFast stops at the first failure instead of continuing.
	FailFast bool
}

// Reporter receives one line per eligible season, before any mutation of it.
type Reporter interface {
	Report(line report.Line)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(report.Line)

// Report calls f.
func (f ReporterFunc) Report(line report.Line) { f(line) }

// Orchestrator executes decisions against a download tracker.
type Orchestrator struct {
	tracker  inventory.DownloadTracker
	reporter Reporter
	logger   *slog.Logger
	opts     Options
}

// New creates an orchestrator. reporter and logger may be nil.
func New(tracker inventory.DownloadTracker, reporter Reporter, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if reporter == nil {
		reporter = ReporterFunc(func(report.Line) {})
	}
	return &Orchestrator{
		tracker:  tracker,
		reporter: reporter,
		logger:   logging.NewComponentLogger(logger, "cleanup"),
		opts:     opts,
	}
}

// errAborted stops the pass after a failure when FailFast is set.
var errAborted = errors.New("aborted after first failure")

// Execute walks the decision in order. The returned Summary is always
// populated with what happened; the error joins every recorded failure.
func (o *Orchestrator) Execute(ctx context.Context, decision retention.Decision) (Summary, error) {
	summary := Summary{DryRun: o.opts.DryRun}
	for _, entry := range decision.Entries {
		if err := ctx.Err(); err != nil {
			summary.Interrupted = true
			return summary, errors.Join(summary.Err(), err)
		}
		if err := o.executeSeries(ctx, entry, &summary); err != nil {
			summary.Interrupted = true
			if errors.Is(err, errAborted) {
				break
			}
			return summary, errors.Join(summary.Err(), err)
		}
	}
	return summary, summary.Err()
}

func (o *Orchestrator) executeSeries(ctx context.Context, entry retention.Entry, summary *Summary) error {
	series := entry.Series
	logger := o.logger.With(
		logging.String(logging.FieldSeries, series.Title),
		logging.Int(logging.FieldSeriesID, series.ID),
	)
	summary.SeriesPlanned++

	files, err := o.tracker.FetchEpisodeFiles(ctx, series.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.ErrorWithContext(logger, "failed to list episode files", "episode_files_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check download tracker connectivity"),
		)
		summary.Failures = append(summary.Failures, Failure{SeriesTitle: series.Title, SeriesID: series.ID, Err: err})
		return o.abortIfFailFast()
	}
	bySeason := inventory.FilesBySeason(files)

	for _, season := range entry.Seasons {
		seasonFiles := bySeason[season.Number]
		line := report.Line{
			SeriesTitle:  series.Title,
			SeriesID:     series.ID,
			SeasonNumber: season.Number,
			FileCount:    len(seasonFiles),
			Size:         fileSizes(seasonFiles),
			DryRun:       o.opts.DryRun,
		}
		o.reporter.Report(line)
		summary.Lines = append(summary.Lines, line)
		summary.SeasonsPlanned++
		summary.FilesPlanned += len(seasonFiles)

		if o.opts.DryRun {
			continue
		}
		if err := o.executeSeason(ctx, logger, series, season, seasonFiles, summary); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) executeSeason(ctx context.Context, logger *slog.Logger, series inventory.Series, season inventory.Season, files []inventory.EpisodeFile, summary *Summary) error {
	seasonLogger := logger.With(logging.Int(logging.FieldSeason, season.Number))
	seasonNumber := season.Number

	seasonLogger.Info("unmonitoring season")
	if err := o.tracker.UnmonitorSeason(ctx, series.ID, season.Number); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.ErrorWithContext(seasonLogger, "failed to unmonitor season, leaving its files", "unmonitor_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "season files kept"),
		)
		summary.Failures = append(summary.Failures, Failure{
			SeriesTitle: series.Title, SeriesID: series.ID, Season: &seasonNumber, Err: err,
		})
		return o.abortIfFailFast()
	}
	summary.SeasonsUnmonitored++

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		seasonLogger.Info("deleting episode file",
			logging.Int(logging.FieldFileID, file.ID),
			logging.String("path", file.Path),
			logging.Uint64("size_bytes", file.Size),
		)
		if err := o.tracker.DeleteEpisodeFile(ctx, file.ID); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.ErrorWithContext(seasonLogger, "failed to delete episode file", "delete_failed",
				logging.Int(logging.FieldFileID, file.ID),
				logging.String("path", file.Path),
				logging.Error(err),
			)
			fileID := file.ID
			summary.Failures = append(summary.Failures, Failure{
				SeriesTitle: series.Title, SeriesID: series.ID, Season: &seasonNumber, FileID: &fileID, Err: err,
			})
			if abort := o.abortIfFailFast(); abort != nil {
				return abort
			}
			continue
		}
		summary.FilesDeleted++
		summary.BytesReclaimed = inventory.SumSizes(summary.BytesReclaimed, file.Size)
	}
	return nil
}

func (o *Orchestrator) abortIfFailFast() error {
	if o.opts.FailFast {
		return errAborted
	}
	return nil
}

func fileSizes(files []inventory.EpisodeFile) uint64 {
	var total uint64
	for _, file := range files {
		total = inventory.SumSizes(total, file.Size)
	}
	return total
}

// Failure records one failed step.
type Failure struct {
	SeriesTitle string
	SeriesID    int
	// Season is nil for series-level failures.
	Season *int
	// FileID is nil unless a single file failed.
	FileID *int
	Err    error
}

func (f Failure) Error() string {
	switch {
	case f.FileID != nil:
		return fmt.Sprintf("%s %s: file %d: %v", f.SeriesTitle, seasonCode(*f.Season), *f.FileID, f.Err)
	case f.Season != nil:
		return fmt.Sprintf("%s %s: %v", f.SeriesTitle, seasonCode(*f.Season), f.Err)
	default:
		return fmt.Sprintf("%s: %v", f.SeriesTitle, f.Err)
	}
}

func (f Failure) Unwrap() error { return f.Err }

func seasonCode(n int) string { return inventory.Season{Number: n}.Code() }
