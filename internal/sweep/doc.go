// Package sweep runs one retention pass end to end.
//
// A pass reads watch state, resolves the exemption tag, lists series, decides
// which seasons to drop, and hands the decision to the cleanup orchestrator.
// Every pass gets a run ID that is stamped on its logs, metrics and
// notifications. The CLI "tv" command and the daemon scheduler both drive
// passes through Runner.
package sweep
