package inventory

import "context"

// WatchTracker reports per-season watch state from a media server.
type WatchTracker interface {
	Name() string
	AllTVSeasons(ctx context.Context) ([]WatchedSeason, error)
}

// DownloadTracker exposes the inventory and mutations of the download
// tracker that owns the files on disk.
type DownloadTracker interface {
	FetchTags(ctx context.Context) (Tags, error)
	FetchAllSeries(ctx context.Context) ([]Series, error)
	FetchEpisodeFiles(ctx context.Context, seriesID int) ([]EpisodeFile, error)
	UnmonitorSeason(ctx context.Context, seriesID, seasonNumber int) error
	DeleteEpisodeFile(ctx context.Context, fileID int) error
}
