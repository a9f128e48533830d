// Package inventory defines the canonical media model shared by the download
// tracker (Sonarr) and watch tracker (Plex, Jellyfin) clients.
//
// Series, seasons, and their statistics are normalized here so the retention
// engine and deletion orchestrator never see service-specific payloads. The
// WatchTracker and DownloadTracker interfaces are the only surface those
// components depend on; the concrete clients in internal/services satisfy them
// and tests substitute fakes from internal/testsupport.
package inventory
