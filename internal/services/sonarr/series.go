package sonarr

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"seasonsweep/internal/inventory"
)

// FetchTags returns every tag defined in Sonarr.
func (c *Client) FetchTags(ctx context.Context) (inventory.Tags, error) {
	var resources []tagResource
	if err := c.do(ctx, "fetch tags", http.MethodGet, "tag", nil, nil, &resources); err != nil {
		return nil, err
	}
	tags := make(inventory.Tags, 0, len(resources))
	for _, r := range resources {
		tags = append(tags, inventory.Tag{ID: inventory.TagID(r.ID), Label: r.Label})
	}
	return tags, nil
}

// FetchAllSeries returns every series Sonarr tracks, with per-season
// statistics.
func (c *Client) FetchAllSeries(ctx context.Context) ([]inventory.Series, error) {
	var resources []seriesResource
	if err := c.do(ctx, "fetch series", http.MethodGet, "series", nil, nil, &resources); err != nil {
		return nil, err
	}
	series := make([]inventory.Series, 0, len(resources))
	for _, r := range resources {
		series = append(series, r.toInventory())
	}
	return series, nil
}

// FetchEpisodeFiles returns the files on disk for one series.
func (c *Client) FetchEpisodeFiles(ctx context.Context, seriesID int) ([]inventory.EpisodeFile, error) {
	var resources []episodeFileResource
	query := url.Values{"seriesId": []string{strconv.Itoa(seriesID)}}
	if err := c.do(ctx, "fetch episode files", http.MethodGet, "episodefile", query, nil, &resources); err != nil {
		return nil, err
	}
	files := make([]inventory.EpisodeFile, 0, len(resources))
	for _, r := range resources {
		files = append(files, r.toInventory())
	}
	return files, nil
}

// SystemStatus reports the Sonarr version; used by preflight checks.
func (c *Client) SystemStatus(ctx context.Context) (string, error) {
	var status struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, "system status", http.MethodGet, "system/status", nil, nil, &status); err != nil {
		return "", err
	}
	return status.Version, nil
}
