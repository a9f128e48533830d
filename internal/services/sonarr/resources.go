package sonarr

import (
	"time"

	"seasonsweep/internal/inventory"
)

type tagResource struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type statisticsResource struct {
	EpisodeFileCount  uint32     `json:"episodeFileCount"`
	EpisodeCount      uint32     `json:"episodeCount"`
	TotalEpisodeCount uint32     `json:"totalEpisodeCount"`
	NextAiring        *time.Time `json:"nextAiring"`
	PreviousAiring    *time.Time `json:"previousAiring"`
	SizeOnDisk        uint64     `json:"sizeOnDisk"`
}

type seasonResource struct {
	SeasonNumber int                 `json:"seasonNumber"`
	Monitored    bool                `json:"monitored"`
	Statistics   *statisticsResource `json:"statistics"`
}

type seriesResource struct {
	ID      int              `json:"id"`
	Title   string           `json:"title"`
	Tags    []int            `json:"tags"`
	Seasons []seasonResource `json:"seasons"`
}

type episodeFileResource struct {
	ID           int    `json:"id"`
	SeriesID     int    `json:"seriesId"`
	SeasonNumber int    `json:"seasonNumber"`
	Path         string `json:"path"`
	Size         uint64 `json:"size"`
}

func (r seriesResource) toInventory() inventory.Series {
	series := inventory.Series{
		ID:      r.ID,
		Title:   r.Title,
		Tags:    make([]inventory.TagID, 0, len(r.Tags)),
		Seasons: make([]inventory.Season, 0, len(r.Seasons)),
	}
	for _, tag := range r.Tags {
		series.Tags = append(series.Tags, inventory.TagID(tag))
	}
	for _, season := range r.Seasons {
		series.Seasons = append(series.Seasons, season.toInventory())
	}
	return series
}

func (r seasonResource) toInventory() inventory.Season {
	season := inventory.Season{Number: r.SeasonNumber, Monitored: r.Monitored}
	if stats := r.Statistics; stats != nil {
		season.Stats = inventory.SeasonStats{
			EpisodeFileCount:  stats.EpisodeFileCount,
			EpisodeCount:      stats.EpisodeCount,
			TotalEpisodeCount: stats.TotalEpisodeCount,
			NextAiring:        utc(stats.NextAiring),
			PreviousAiring:    utc(stats.PreviousAiring),
			SizeOnDisk:        stats.SizeOnDisk,
		}
	}
	return season
}

func (r episodeFileResource) toInventory() inventory.EpisodeFile {
	return inventory.EpisodeFile{
		ID:           r.ID,
		SeriesID:     r.SeriesID,
		SeasonNumber: r.SeasonNumber,
		Path:         r.Path,
		Size:         r.Size,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}
