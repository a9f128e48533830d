// Package sonarr is the download tracker client.
//
// It lists tags, series, and episode files from the Sonarr v3 API and
// performs the two mutations a sweep needs: unmonitoring a season and
// deleting an episode file. Season unmonitoring touches only the season's
// monitored flag. File deletion is idempotent (a missing file is success) and
// retries transient failures with bounded exponential backoff.
package sonarr
