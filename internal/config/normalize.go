package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSonarr()
	c.normalizeViewer()
	c.normalizeRetention()
	c.normalizeLogging()
	c.Daemon.Schedule = strings.TrimSpace(c.Daemon.Schedule)
	c.Daemon.Listen = strings.TrimSpace(c.Daemon.Listen)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeSonarr() {
	c.Sonarr.URL = ensureTrailingSlash(strings.TrimSpace(c.Sonarr.URL))
	c.Sonarr.APIKey = envSecret(c.Sonarr.APIKey, "SONARR_API_KEY")
}

func (c *Config) normalizeViewer() {
	c.Plex.URL = ensureTrailingSlash(strings.TrimSpace(c.Plex.URL))
	c.Plex.Token = envSecret(c.Plex.Token, "PLEX_TOKEN")
	c.Jellyfin.URL = ensureTrailingSlash(strings.TrimSpace(c.Jellyfin.URL))
	c.Jellyfin.APIKey = envSecret(c.Jellyfin.APIKey, "JELLYFIN_API_KEY")
	c.Jellyfin.User = strings.TrimSpace(c.Jellyfin.User)
	c.Viewer = strings.ToLower(strings.TrimSpace(c.Viewer))
	if c.Viewer == "" {
		c.Viewer = ViewerPlex
	}
}

func (c *Config) normalizeRetention() {
	c.Retention.RetainTag = strings.TrimSpace(c.Retention.RetainTag)
	c.Retention.TitleMatch = strings.ToLower(strings.TrimSpace(c.Retention.TitleMatch))
	if c.Retention.TitleMatch == "" {
		c.Retention.TitleMatch = TitleMatchExact
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// envSecret trims value and falls back to the named environment variable
// when the file leaves it empty.
func envSecret(value Secret, env string) Secret {
	trimmed := strings.TrimSpace(value.Reveal())
	if trimmed == "" {
		if fromEnv, ok := os.LookupEnv(env); ok {
			trimmed = strings.TrimSpace(fromEnv)
		}
	}
	return Secret(trimmed)
}

// ensureTrailingSlash keeps relative endpoint joins under the configured
// base path ("api/v3/" + "series").
func ensureTrailingSlash(raw string) string {
	if raw == "" || strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}
