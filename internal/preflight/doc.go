// Package preflight provides readiness checks for the services and paths a
// sweep depends on.
//
// The "seasonsweep check" command prints every result. The daemon runs the
// same checks at startup and logs failures without refusing to start, since
// a tracker that is down at boot may be back by the first scheduled pass.
package preflight
