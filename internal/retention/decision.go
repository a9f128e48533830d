package retention

import (
	"seasonsweep/internal/inventory"
)

// Reason explains why a season was not selected.
type Reason string

const (
	ReasonExempt      Reason = "exempt"
	ReasonUnwatched   Reason = "unwatched"
	ReasonAiring      Reason = "airing"
	ReasonTooYoung    Reason = "too_young"
	ReasonNeverAired  Reason = "never_aired"
	ReasonEmptyOnDisk Reason = "empty"
)

// Reasons lists every skip reason in evaluation order.
func Reasons() []Reason {
	return []Reason{ReasonExempt, ReasonUnwatched, ReasonAiring, ReasonTooYoung, ReasonNeverAired, ReasonEmptyOnDisk}
}

// Entry is one series with the seasons selected for deletion, in inventory
// order.
type Entry struct {
	Series  inventory.Series
	Seasons []inventory.Season
}

// Size returns the on-disk size of the selected seasons.
func (e Entry) Size() uint64 {
	sizes := make([]uint64, 0, len(e.Seasons))
	for _, season := range e.Seasons {
		sizes = append(sizes, season.Stats.SizeOnDisk)
	}
	return inventory.SumSizes(sizes...)
}

// Decision is the ordered result of Decide. Series without selected seasons
// are absent.
type Decision struct {
	Entries []Entry
	// Skipped counts non-selected seasons by reason.
	Skipped map[Reason]int
}

// SeasonCount returns the number of selected seasons.
func (d Decision) SeasonCount() int {
	n := 0
	for _, entry := range d.Entries {
		n += len(entry.Seasons)
	}
	return n
}

// Size returns the on-disk size of every selected season.
func (d Decision) Size() uint64 {
	var total uint64
	for _, entry := range d.Entries {
		total = inventory.SumSizes(total, entry.Size())
	}
	return total
}

// Empty reports whether nothing was selected.
func (d Decision) Empty() bool { return len(d.Entries) == 0 }
