// Package cleanup carries out a retention decision against the download
// tracker.
//
// For every eligible season the orchestrator reports what it found, then
// (outside dry-run) unmonitors the season and deletes its files one at a
// time. Failures are recorded and the pass continues with whatever else it
// can do; the aggregate error is returned at the end so callers exit
// non-zero without leaving work undone.
package cleanup
