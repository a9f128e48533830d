// Package services defines shared utilities consumed by the external service
// clients and the sweep pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and triggers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (configuration, transient, not found) without string matching.
//   - HTTP response classification shared by the Sonarr, Plex, and Jellyfin
//     clients.
package services
