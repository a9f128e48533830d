package retention

import (
	"fmt"
	"strings"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/textutil"
)

// TitleMatcher canonicalizes watched-season keys so titles reported by the
// watch tracker can be compared with the download tracker's series titles.
// Two keys match when their canonical forms are equal.
type TitleMatcher interface {
	Name() string
	Canonical(key inventory.WatchedKey) inventory.WatchedKey
}

// ExactMatcher compares titles and labels byte for byte.
type ExactMatcher struct{}

func (ExactMatcher) Name() string { return "exact" }

func (ExactMatcher) Canonical(key inventory.WatchedKey) inventory.WatchedKey { return key }

// FoldMatcher ignores letter case, Unicode compatibility forms, and
// whitespace runs.
type FoldMatcher struct{}

func (FoldMatcher) Name() string { return "fold" }

func (FoldMatcher) Canonical(key inventory.WatchedKey) inventory.WatchedKey {
	return inventory.WatchedKey{
		SeriesTitle: textutil.Fold(key.SeriesTitle),
		SeasonLabel: textutil.Fold(key.SeasonLabel),
	}
}

// MatcherByName resolves a configured matcher name.
func MatcherByName(name string) (TitleMatcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exact":
		return ExactMatcher{}, nil
	case "fold":
		return FoldMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown title matcher %q", name)
	}
}

// watchedIndex is a watched set re-keyed through a matcher.
type watchedIndex struct {
	matcher TitleMatcher
	keys    map[inventory.WatchedKey]struct{}
}

func newWatchedIndex(set inventory.WatchedSet, matcher TitleMatcher) watchedIndex {
	if matcher == nil {
		matcher = ExactMatcher{}
	}
	keys := make(map[inventory.WatchedKey]struct{}, len(set))
	for key := range set {
		keys[matcher.Canonical(key)] = struct{}{}
	}
	return watchedIndex{matcher: matcher, keys: keys}
}

func (w watchedIndex) contains(title, label string) bool {
	_, ok := w.keys[w.matcher.Canonical(inventory.WatchedKey{SeriesTitle: title, SeasonLabel: label})]
	return ok
}
