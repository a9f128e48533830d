package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"seasonsweep/internal/config"
	"seasonsweep/internal/timespan"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a valid config seeded with unique temp directories per
// test. Credentials are placeholders; point URLs at httptest servers with the
// With* options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Sonarr.APIKey = "test-sonarr-key"
	cfgVal.Plex.Token = "test-plex-token"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""
	cfgVal.Daemon.Listen = "127.0.0.1:0"
	cfgVal.Sonarr.DeleteInitialBackoff = timespan.Duration(time.Millisecond)
	cfgVal.Sonarr.DeleteMaxBackoff = timespan.Duration(2 * time.Millisecond)
	cfgVal.Sonarr.DeleteMaxAttempts = 3

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSonarrURL points the download tracker at url.
func WithSonarrURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sonarr.URL = url
	}
}

// WithPlexURL selects the Plex viewer at url.
func WithPlexURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Viewer = config.ViewerPlex
		b.cfg.Plex.URL = url
	}
}

// WithJellyfin selects the Jellyfin viewer at url for user.
func WithJellyfin(url, user string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Viewer = config.ViewerJellyfin
		b.cfg.Jellyfin.URL = url
		b.cfg.Jellyfin.APIKey = "test-jellyfin-key"
		b.cfg.Jellyfin.User = user
	}
}

// WithRetainDuration overrides the retention grace period.
func WithRetainDuration(d time.Duration) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Retention.RetainDuration = timespan.Duration(d)
	}
}

// WithNtfyTopic enables notifications to topic.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithLogDir enables file logging under the test's temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// WithRetainTag sets the exemption tag label.
func WithRetainTag(label string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Retention.RetainTag = label
	}
}
