package plex

import (
	"context"
	"fmt"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/logging"
)

const (
	kindShow   = "show"
	kindSeason = "season"
)

type directory struct {
	Key   string `xml:"key,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

type season struct {
	Key             string `xml:"key,attr"`
	Type            string `xml:"type,attr"`
	Title           string `xml:"title,attr"`
	ParentTitle     string `xml:"parentTitle,attr"`
	LeafCount       uint32 `xml:"leafCount,attr"`
	ViewedLeafCount uint32 `xml:"viewedLeafCount,attr"`
}

// fullyWatched compares against the episodes Plex has indexed, not the
// episodes that exist.
func (s season) fullyWatched() bool {
	return s.ViewedLeafCount == s.LeafCount
}

type directoryContainer struct {
	Directories []directory `xml:"Directory"`
}

type seasonContainer struct {
	// The show title also appears on the container; seasons sometimes omit
	// parentTitle.
	ParentTitle string   `xml:"parentTitle,attr"`
	Title2      string   `xml:"title2,attr"`
	Seasons     []season `xml:"Directory"`
}

// AllTVSeasons lists every season in every TV library on the server.
func (c *Client) AllTVSeasons(ctx context.Context) ([]inventory.WatchedSeason, error) {
	var sections directoryContainer
	if err := c.getXML(ctx, "list libraries", "library/sections", &sections); err != nil {
		return nil, err
	}

	var out []inventory.WatchedSeason
	for _, section := range sections.Directories {
		if section.Type != kindShow {
			continue
		}
		var shows directoryContainer
		path := fmt.Sprintf("library/sections/%s/all", section.Key)
		if err := c.getXML(ctx, "list shows", path, &shows); err != nil {
			return nil, fmt.Errorf("library %q: %w", section.Title, err)
		}
		for _, show := range shows.Directories {
			seasons, err := c.showSeasons(ctx, show)
			if err != nil {
				return nil, fmt.Errorf("show %q: %w", show.Title, err)
			}
			out = append(out, seasons...)
		}
		c.logger.Debug("plex library scanned",
			logging.String("library", section.Title),
			logging.Int("shows", len(shows.Directories)),
		)
	}
	return out, nil
}

func (c *Client) showSeasons(ctx context.Context, show directory) ([]inventory.WatchedSeason, error) {
	var container seasonContainer
	if err := c.getXML(ctx, "list seasons", show.Key, &container); err != nil {
		return nil, err
	}
	out := make([]inventory.WatchedSeason, 0, len(container.Seasons))
	for _, s := range container.Seasons {
		// The "All episodes" entry carries no type attribute.
		if s.Type != kindSeason {
			continue
		}
		title := s.ParentTitle
		if title == "" {
			title = firstNonEmpty(container.ParentTitle, container.Title2, show.Title)
		}
		out = append(out, inventory.WatchedSeason{
			SeriesTitle:  title,
			SeasonLabel:  s.Title,
			FullyWatched: s.fullyWatched(),
		})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
