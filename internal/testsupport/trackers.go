package testsupport

import (
	"context"
	"fmt"
	"sync"

	"seasonsweep/internal/inventory"
)

// Call records one mutating request made against a FakeDownloadTracker.
type Call struct {
	Op       string
	SeriesID int
	Season   int
	FileID   int
}

// FakeDownloadTracker is an in-memory download tracker. Errors can be
// injected per series, season, or file.
type FakeDownloadTracker struct {
	mu sync.Mutex

	Tags   inventory.Tags
	Series []inventory.Series
	Files  map[int][]inventory.EpisodeFile

	TagsErr      error
	SeriesErr    error
	FilesErr     map[int]error
	UnmonitorErr map[[2]int]error
	DeleteErr    map[int]error

	calls []Call
}

var _ inventory.DownloadTracker = (*FakeDownloadTracker)(nil)

// FetchTags returns the configured tags.
func (f *FakeDownloadTracker) FetchTags(context.Context) (inventory.Tags, error) {
	if f.TagsErr != nil {
		return nil, f.TagsErr
	}
	return f.Tags, nil
}

// FetchAllSeries returns the configured series.
func (f *FakeDownloadTracker) FetchAllSeries(context.Context) ([]inventory.Series, error) {
	if f.SeriesErr != nil {
		return nil, f.SeriesErr
	}
	return f.Series, nil
}

// FetchEpisodeFiles returns the configured files for seriesID.
func (f *FakeDownloadTracker) FetchEpisodeFiles(_ context.Context, seriesID int) ([]inventory.EpisodeFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "files", SeriesID: seriesID})
	if err := f.FilesErr[seriesID]; err != nil {
		return nil, err
	}
	return f.Files[seriesID], nil
}

// UnmonitorSeason records the call.
func (f *FakeDownloadTracker) UnmonitorSeason(_ context.Context, seriesID, seasonNumber int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "unmonitor", SeriesID: seriesID, Season: seasonNumber})
	return f.UnmonitorErr[[2]int{seriesID, seasonNumber}]
}

// DeleteEpisodeFile records the call.
func (f *FakeDownloadTracker) DeleteEpisodeFile(_ context.Context, fileID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", FileID: fileID})
	return f.DeleteErr[fileID]
}

// Calls returns every recorded call in order.
func (f *FakeDownloadTracker) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Mutations returns recorded unmonitor and delete calls.
func (f *FakeDownloadTracker) Mutations() []Call {
	var out []Call
	for _, call := range f.Calls() {
		if call.Op != "files" {
			out = append(out, call)
		}
	}
	return out
}

// FakeWatchTracker returns a fixed list of seasons.
type FakeWatchTracker struct {
	TrackerName string
	Seasons     []inventory.WatchedSeason
	Err         error
}

var _ inventory.WatchTracker = (*FakeWatchTracker)(nil)

// Name returns the tracker name, defaulting to "fake".
func (f *FakeWatchTracker) Name() string {
	if f.TrackerName == "" {
		return "fake"
	}
	return f.TrackerName
}

// AllTVSeasons returns the configured seasons.
func (f *FakeWatchTracker) AllTVSeasons(context.Context) ([]inventory.WatchedSeason, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Seasons, nil
}

// Watched builds fully watched seasons for title, one per number.
func Watched(title string, numbers ...int) []inventory.WatchedSeason {
	out := make([]inventory.WatchedSeason, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, inventory.WatchedSeason{
			SeriesTitle:  title,
			SeasonLabel:  fmt.Sprintf("Season %d", n),
			FullyWatched: true,
		})
	}
	return out
}
