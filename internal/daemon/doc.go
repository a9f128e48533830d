// Package daemon runs seasonsweep as a long-lived process.
//
// It holds the run lock for its whole lifetime, triggers passes on the
// configured cron schedule, and serves health, status and metrics over HTTP
// when a listen address is set. Passes themselves live in the sweep package;
// the daemon only owns startup, shutdown and status bookkeeping.
package daemon
