package inventory

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// TagID identifies a Sonarr tag.
type TagID int

// Tag is a labelled marker attached to series.
type Tag struct {
	ID    TagID
	Label string
}

// Tags is the tag catalogue of one download tracker instance.
type Tags []Tag

// Find returns the tag with the given label.
func (t Tags) Find(label string) (Tag, bool) {
	for _, tag := range t {
		if tag.Label == label {
			return tag, true
		}
	}
	return Tag{}, false
}

// SeasonStats summarises one season's files and airing state.
type SeasonStats struct {
	EpisodeFileCount  uint32
	EpisodeCount      uint32
	TotalEpisodeCount uint32
	NextAiring        *time.Time
	PreviousAiring    *time.Time
	SizeOnDisk        uint64
}

// Season is one numbered season of a series. Season 0 holds specials.
type Season struct {
	Number    int
	Monitored bool
	Stats     SeasonStats
}

// Label returns the watch tracker display form ("Season 3").
func (s Season) Label() string {
	return SeasonLabel(s.Number)
}

// SeasonLabel formats a season number the way watch trackers title seasons.
func SeasonLabel(number int) string {
	return "Season " + strconv.Itoa(number)
}

// Code returns the short form used in reports ("S03").
func (s Season) Code() string {
	return fmt.Sprintf("S%02d", s.Number)
}

// Series is a show tracked by the download tracker.
type Series struct {
	ID      int
	Title   string
	Tags    []TagID
	Seasons []Season
}

// HasTag reports whether the series carries the given tag.
func (s Series) HasTag(id TagID) bool {
	for _, tag := range s.Tags {
		if tag == id {
			return true
		}
	}
	return false
}

// EpisodeFile is one media file on disk.
type EpisodeFile struct {
	ID           int
	SeriesID     int
	SeasonNumber int
	Path         string
	Size         uint64
}

// SumSizes adds sizes without wrapping; the result saturates at MaxUint64.
func SumSizes(sizes ...uint64) uint64 {
	var total uint64
	for _, size := range sizes {
		if total > math.MaxUint64-size {
			return math.MaxUint64
		}
		total += size
	}
	return total
}

// FilesBySeason partitions files by season number, preserving file order
// within each season.
func FilesBySeason(files []EpisodeFile) map[int][]EpisodeFile {
	out := make(map[int][]EpisodeFile)
	for _, file := range files {
		out[file.SeasonNumber] = append(out[file.SeasonNumber], file)
	}
	return out
}
