package inventory

// WatchedSeason is a season as reported by a watch tracker.
type WatchedSeason struct {
	SeriesTitle  string
	SeasonLabel  string
	FullyWatched bool
}

// WatchedKey identifies a season across trackers.
type WatchedKey struct {
	SeriesTitle string
	SeasonLabel string
}

// Key returns the lookup key for a watched season.
func (w WatchedSeason) Key() WatchedKey {
	return WatchedKey{SeriesTitle: w.SeriesTitle, SeasonLabel: w.SeasonLabel}
}

// WatchedSet holds the keys of fully watched seasons.
type WatchedSet map[WatchedKey]struct{}

// NewWatchedSet keeps only fully watched seasons.
func NewWatchedSet(seasons []WatchedSeason) WatchedSet {
	set := make(WatchedSet, len(seasons))
	for _, season := range seasons {
		if season.FullyWatched {
			set[season.Key()] = struct{}{}
		}
	}
	return set
}

// Contains reports exact membership.
func (s WatchedSet) Contains(key WatchedKey) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the set's keys in unspecified order.
func (s WatchedSet) Keys() []WatchedKey {
	keys := make([]WatchedKey, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	return keys
}
