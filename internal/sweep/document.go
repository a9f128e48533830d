package sweep

import "seasonsweep/internal/report"

// Document converts the result into the --json report shape.
func (r Result) Document() report.Document {
	doc := report.Document{
		RunID:        r.RunID,
		DryRun:       r.DryRun,
		Lines:        r.Summary.Lines,
		Totals:       report.Sum(r.Summary.Lines),
		FilesDeleted: r.Summary.FilesDeleted,
		Reclaimed:    r.Summary.BytesReclaimed,
		Failures:     r.Summary.ReportFailures(),
	}
	if len(r.Decision.Skipped) > 0 {
		doc.Skipped = make(map[string]int, len(r.Decision.Skipped))
		for reason, count := range r.Decision.Skipped {
			if count > 0 {
				doc.Skipped[string(reason)] = count
			}
		}
	}
	if r.Err != nil && len(r.Summary.Failures) == 0 {
		doc.Error = r.Err.Error()
	}
	return doc
}
