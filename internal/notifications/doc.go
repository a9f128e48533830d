// Package notifications delivers sweep events via ntfy.
//
// NewService publishes to the topic configured in config.toml and degrades to
// a no-op when no topic is set, so callers never branch on whether
// notifications are enabled.
package notifications
