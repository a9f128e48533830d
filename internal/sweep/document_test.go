package sweep_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"seasonsweep/internal/report"
	"seasonsweep/internal/sweep"
	"seasonsweep/internal/testsupport"
)

func TestResultDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRetainTag("retain"), testsupport.WithRetainDuration(12*24*time.Hour))
	download, watch := fixture()
	download.DeleteErr = map[int]error{11: errors.New("disk busy")}

	result, err := newRunner(t, cfg, download, watch).Run(context.Background(), sweep.Options{DeleteFiles: true})
	if err == nil {
		t.Fatal("expected failure from file 11")
	}
	doc := result.Document()
	if doc.RunID != "run-1" || doc.DryRun {
		t.Fatalf("unexpected header: %+v", doc)
	}
	if doc.FilesDeleted != 1 || doc.Reclaimed != 100 {
		t.Fatalf("unexpected counters: deleted=%d reclaimed=%d", doc.FilesDeleted, doc.Reclaimed)
	}
	if len(doc.Failures) != 1 || doc.Failures[0].FileID == nil || *doc.Failures[0].FileID != 11 {
		t.Fatalf("unexpected failures: %+v", doc.Failures)
	}
	if doc.Error != "" {
		t.Fatalf("per-file failures should not set the top-level error: %q", doc.Error)
	}
	if doc.Skipped["exempt"] != 1 || doc.Skipped["too_young"] != 1 {
		t.Fatalf("unexpected skipped: %+v", doc.Skipped)
	}

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["run_id"] != "run-1" {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestResultDocumentCarriesSetupError(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRetainTag("missing"))
	download, watch := fixture()
	result, err := newRunner(t, cfg, download, watch).Run(context.Background(), sweep.Options{})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	doc := result.Document()
	if doc.Error == "" || len(doc.Failures) != 0 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
