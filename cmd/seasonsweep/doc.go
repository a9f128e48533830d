// Command seasonsweep removes fully watched, aged-out TV seasons from Sonarr.
//
// Without -f every pass is a dry run that only prints what would be deleted.
// The daemon subcommand repeats passes on a cron schedule and serves health,
// status and metrics endpoints.
package main
