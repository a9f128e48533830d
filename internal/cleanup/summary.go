package cleanup

import (
	"errors"

	"seasonsweep/internal/report"
)

// Summary is the outcome of one Execute call.
type Summary struct {
	DryRun             bool
	SeriesPlanned      int
	SeasonsPlanned     int
	FilesPlanned       int
	SeasonsUnmonitored int
	FilesDeleted       int
	BytesReclaimed     uint64
	Lines              []report.Line
	Failures           []Failure
	// Interrupted is set when the pass stopped early (cancellation or
	// fail-fast).
	Interrupted bool
}

// Err joins every recorded failure, or returns nil.
func (s Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(s.Failures))
	for _, failure := range s.Failures {
		errs = append(errs, failure)
	}
	return errors.Join(errs...)
}

// ReportFailures converts failures for machine-readable output.
func (s Summary) ReportFailures() []report.Failure {
	out := make([]report.Failure, 0, len(s.Failures))
	for _, failure := range s.Failures {
		out = append(out, report.Failure{
			Series: failure.SeriesTitle,
			Season: failure.Season,
			FileID: failure.FileID,
			Error:  failure.Err.Error(),
		})
	}
	return out
}
