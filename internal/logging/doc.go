// Package logging assembles the structured slog loggers used across
// seasonsweep.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so every line of a sweep carries
// its run identifier. A no-op logger is provided for tests and for wiring code
// that cannot fail.
package logging
