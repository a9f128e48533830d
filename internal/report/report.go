// Package report renders what a sweep did or would do.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"seasonsweep/internal/inventory"
)

// Line describes one season slated for deletion.
type Line struct {
	SeriesTitle  string `json:"series"`
	SeriesID     int    `json:"series_id"`
	SeasonNumber int    `json:"season"`
	FileCount    int    `json:"files"`
	Size         uint64 `json:"size_bytes"`
	DryRun       bool   `json:"dry_run"`
}

// String renders the human line, e.g. "delete 10 files: Show S01: 4.7 GiB".
func (l Line) String() string {
	verb := "delete"
	if l.DryRun {
		verb = "would delete"
	}
	return fmt.Sprintf("%s %d files: %s %s: %s",
		verb, l.FileCount, l.SeriesTitle, seasonCode(l.SeasonNumber), humanize.IBytes(l.Size))
}

func seasonCode(number int) string {
	return inventory.Season{Number: number}.Code()
}

// Totals aggregates a set of lines.
type Totals struct {
	Series  int    `json:"series"`
	Seasons int    `json:"seasons"`
	Files   int    `json:"files"`
	Size    uint64 `json:"size_bytes"`
}

// Sum totals lines. Series are counted by distinct ID.
func Sum(lines []Line) Totals {
	var totals Totals
	seen := make(map[int]struct{})
	for _, line := range lines {
		if _, ok := seen[line.SeriesID]; !ok {
			seen[line.SeriesID] = struct{}{}
			totals.Series++
		}
		totals.Seasons++
		totals.Files += line.FileCount
		totals.Size = inventory.SumSizes(totals.Size, line.Size)
	}
	return totals
}

// RenderTable renders lines as a rounded table with a total row.
func RenderTable(lines []Line) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Series", "Season", "Files", "Size"})
	for _, line := range lines {
		tw.AppendRow(table.Row{
			line.SeriesTitle,
			seasonCode(line.SeasonNumber),
			strconv.Itoa(line.FileCount),
			humanize.IBytes(line.Size),
		})
	}
	totals := Sum(lines)
	tw.AppendFooter(table.Row{
		"Total",
		strconv.Itoa(totals.Seasons),
		strconv.Itoa(totals.Files),
		humanize.IBytes(totals.Size),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// Failure is one failed mutation in machine-readable form.
type Failure struct {
	Series string `json:"series"`
	Season *int   `json:"season,omitempty"`
	FileID *int   `json:"file_id,omitempty"`
	Error  string `json:"error"`
}

// Document is the --json output of one pass.
type Document struct {
	RunID        string         `json:"run_id"`
	DryRun       bool           `json:"dry_run"`
	Lines        []Line         `json:"seasons"`
	Totals       Totals         `json:"totals"`
	FilesDeleted int            `json:"files_deleted"`
	Reclaimed    uint64         `json:"bytes_reclaimed"`
	Skipped      map[string]int `json:"skipped,omitempty"`
	Failures     []Failure      `json:"failures"`
	// Error is set when the pass aborted before or outside per-season work.
	Error string `json:"error,omitempty"`
}

// WriteJSON writes doc as indented JSON followed by a newline.
func WriteJSON(w io.Writer, doc Document) error {
	if doc.Lines == nil {
		doc.Lines = []Line{}
	}
	if doc.Failures == nil {
		doc.Failures = []Failure{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
