// Package config loads, normalizes, and validates seasonsweep configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as SONARR_API_KEY and
// PLEX_TOKEN. Durations accept human-readable spans ("12 days") through
// timespan.Duration, and credentials are held as Secret values so they never
// leak into logs or rendered output.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical enum values, and clear validation errors.
package config
