// Package retention decides which TV seasons may be reclaimed.
//
// Decide is a pure function of the download tracker inventory, the watch
// tracker's fully watched seasons, and a Policy. It never samples the clock
// and never performs I/O, so the same inputs always produce the same
// Decision. Seasons are filtered in a fixed order: series exemption tag,
// unwatched, still airing, too young, nothing on disk. Every skip is logged
// with the reason so false negatives can be traced.
//
// Comparison of series titles and season labels between the two trackers is
// isolated behind TitleMatcher.
package retention
