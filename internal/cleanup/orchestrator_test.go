package cleanup_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seasonsweep/internal/cleanup"
	"seasonsweep/internal/inventory"
	"seasonsweep/internal/report"
	"seasonsweep/internal/retention"
	"seasonsweep/internal/testsupport"
)

func decisionFor(series ...inventory.Series) retention.Decision {
	var decision retention.Decision
	for _, s := range series {
		decision.Entries = append(decision.Entries, retention.Entry{Series: s, Seasons: s.Seasons})
	}
	return decision
}

func twoSeriesTracker() *testsupport.FakeDownloadTracker {
	return &testsupport.FakeDownloadTracker{
		Files: map[int][]inventory.EpisodeFile{
			1: {
				{ID: 11, SeriesID: 1, SeasonNumber: 1, Size: 100},
				{ID: 12, SeriesID: 1, SeasonNumber: 1, Size: 200},
				{ID: 13, SeriesID: 1, SeasonNumber: 2, Size: 300},
				{ID: 19, SeriesID: 1, SeasonNumber: 3, Size: 900},
			},
			2: {{ID: 21, SeriesID: 2, SeasonNumber: 1, Size: 50}},
		},
	}
}

var (
	showA = inventory.Series{ID: 1, Title: "A", Seasons: []inventory.Season{{Number: 1}, {Number: 2}}}
	showB = inventory.Series{ID: 2, Title: "B", Seasons: []inventory.Season{{Number: 1}}}
)

func TestExecuteDeletesEligibleSeasons(t *testing.T) {
	tracker := twoSeriesTracker()
	var lines []report.Line
	orch := cleanup.New(tracker, cleanup.ReporterFunc(func(l report.Line) { lines = append(lines, l) }), nil, cleanup.Options{})

	summary, err := orch.Execute(context.Background(), decisionFor(showA, showB))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []testsupport.Call{
		{Op: "unmonitor", SeriesID: 1, Season: 1},
		{Op: "delete", FileID: 11},
		{Op: "delete", FileID: 12},
		{Op: "unmonitor", SeriesID: 1, Season: 2},
		{Op: "delete", FileID: 13},
		{Op: "unmonitor", SeriesID: 2, Season: 1},
		{Op: "delete", FileID: 21},
	}
	got := tracker.Mutations()
	if len(got) != len(want) {
		t.Fatalf("unexpected mutations: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mutation %d: got %+v want %+v", i, got[i], want[i])
		}
	}
	if summary.FilesDeleted != 4 || summary.BytesReclaimed != 650 || summary.SeasonsPlanned != 3 || summary.SeriesPlanned != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(lines) != 3 || lines[0].FileCount != 2 || lines[0].Size != 300 {
		t.Fatalf("unexpected report lines: %+v", lines)
	}
}

func TestExecuteDryRunMakesNoMutations(t *testing.T) {
	tracker := twoSeriesTracker()
	var lines []report.Line
	orch := cleanup.New(tracker, cleanup.ReporterFunc(func(l report.Line) { lines = append(lines, l) }), nil, cleanup.Options{DryRun: true})

	summary, err := orch.Execute(context.Background(), decisionFor(showA, showB))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if muts := tracker.Mutations(); len(muts) != 0 {
		t.Fatalf("dry run mutated: %+v", muts)
	}
	if len(lines) != 3 {
		t.Fatalf("expected every season reported, got %d", len(lines))
	}
	for _, line := range lines {
		if !line.DryRun || !strings.HasPrefix(line.String(), "would delete") {
			t.Fatalf("expected dry-run line, got %q", line.String())
		}
	}
	if summary.FilesPlanned != 4 || summary.FilesDeleted != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestExecuteUnmonitorFailureSkipsOnlyThatSeason(t *testing.T) {
	tracker := twoSeriesTracker()
	tracker.UnmonitorErr = map[[2]int]error{{1, 1}: errors.New("boom")}
	orch := cleanup.New(tracker, nil, nil, cleanup.Options{})

	summary, err := orch.Execute(context.Background(), decisionFor(showA, showB))
	if err == nil || !strings.Contains(err.Error(), "A S01: boom") {
		t.Fatalf("expected season failure, got %v", err)
	}
	for _, call := range tracker.Mutations() {
		if call.Op == "delete" && (call.FileID == 11 || call.FileID == 12) {
			t.Fatalf("deleted file of season that failed to unmonitor: %+v", call)
		}
	}
	if summary.FilesDeleted != 2 || len(summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestExecuteFileFailureContinuesWithSiblings(t *testing.T) {
	tracker := twoSeriesTracker()
	tracker.DeleteErr = map[int]error{11: errors.New("locked")}
	orch := cleanup.New(tracker, nil, nil, cleanup.Options{})

	summary, err := orch.Execute(context.Background(), decisionFor(showA))
	if err == nil || !strings.Contains(err.Error(), "file 11") {
		t.Fatalf("expected file failure, got %v", err)
	}
	if summary.FilesDeleted != 2 {
		t.Fatalf("expected siblings deleted, got %+v", summary)
	}
	failure := summary.Failures[0]
	if failure.FileID == nil || *failure.FileID != 11 || failure.Season == nil || *failure.Season != 1 {
		t.Fatalf("unexpected failure: %+v", failure)
	}
}

func TestExecuteSeriesFetchFailureContinues(t *testing.T) {
	tracker := twoSeriesTracker()
	tracker.FilesErr = map[int]error{1: errors.New("unreachable")}
	orch := cleanup.New(tracker, nil, nil, cleanup.Options{})

	summary, err := orch.Execute(context.Background(), decisionFor(showA, showB))
	if err == nil {
		t.Fatal("expected error")
	}
	got := tracker.Mutations()
	if len(got) != 2 || got[0].SeriesID != 2 || got[1].FileID != 21 {
		t.Fatalf("expected second series processed, got %+v", got)
	}
	if summary.Failures[0].Season != nil {
		t.Fatalf("expected series-level failure, got %+v", summary.Failures[0])
	}
}

func TestExecuteFailFastStopsAtFirstFailure(t *testing.T) {
	tracker := twoSeriesTracker()
	tracker.FilesErr = map[int]error{1: errors.New("unreachable")}
	orch := cleanup.New(tracker, nil, nil, cleanup.Options{FailFast: true})

	summary, err := orch.Execute(context.Background(), decisionFor(showA, showB))
	if err == nil {
		t.Fatal("expected error")
	}
	if muts := tracker.Mutations(); len(muts) != 0 {
		t.Fatalf("expected no mutations after fail-fast, got %+v", muts)
	}
	if !summary.Interrupted {
		t.Fatal("expected interrupted summary")
	}
}

func TestExecuteHonoursCancellation(t *testing.T) {
	tracker := twoSeriesTracker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	orch := cleanup.New(tracker, nil, nil, cleanup.Options{})

	summary, err := orch.Execute(ctx, decisionFor(showA, showB))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(tracker.Calls()) != 0 || !summary.Interrupted {
		t.Fatalf("expected nothing done, got %+v", tracker.Calls())
	}
}

func TestExecuteEmptyDecision(t *testing.T) {
	tracker := twoSeriesTracker()
	summary, err := cleanup.New(tracker, nil, nil, cleanup.Options{}).Execute(context.Background(), retention.Decision{})
	if err != nil || summary.SeasonsPlanned != 0 || len(tracker.Calls()) != 0 {
		t.Fatalf("unexpected result: %+v %v", summary, err)
	}
}

func TestSummaryReportFailures(t *testing.T) {
	season, file := 2, 7
	summary := cleanup.Summary{Failures: []cleanup.Failure{
		{SeriesTitle: "A", Err: errors.New("x")},
		{SeriesTitle: "A", Season: &season, FileID: &file, Err: errors.New("y")},
	}}
	out := summary.ReportFailures()
	if len(out) != 2 || out[0].Season != nil || *out[1].FileID != 7 || out[1].Error != "y" {
		t.Fatalf("unexpected report failures: %+v", out)
	}
	if !strings.Contains(summary.Err().Error(), "A S02: file 7: y") {
		t.Fatalf("unexpected joined error: %v", summary.Err())
	}
}
