package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSonarr(); err != nil {
		return err
	}
	if err := c.validateViewer(); err != nil {
		return err
	}
	if err := c.validateRetention(); err != nil {
		return err
	}
	if c.HTTP.Timeout.Std() <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDaemon(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateSonarr() error {
	if err := validateURL("sonarr.url", c.Sonarr.URL); err != nil {
		return err
	}
	if !c.Sonarr.APIKey.IsSet() {
		return fmt.Errorf("sonarr.api_key is required. Set SONARR_API_KEY env var or edit %s (create with 'seasonsweep config init')", displayConfigPath())
	}
	if c.Sonarr.DeleteMaxAttempts < 1 {
		return errors.New("sonarr.delete_max_attempts must be >= 1")
	}
	if c.Sonarr.DeleteInitialBackoff.Std() <= 0 {
		return errors.New("sonarr.delete_initial_backoff must be positive")
	}
	if c.Sonarr.DeleteMaxBackoff.Std() < c.Sonarr.DeleteInitialBackoff.Std() {
		return errors.New("sonarr.delete_max_backoff must be >= sonarr.delete_initial_backoff")
	}
	return nil
}

func (c *Config) validateViewer() error {
	switch c.Viewer {
	case ViewerPlex:
		if err := validateURL("plex.url", c.Plex.URL); err != nil {
			return err
		}
		if !c.Plex.Token.IsSet() {
			return errors.New("plex.token must be set when viewer is plex (or set PLEX_TOKEN)")
		}
	case ViewerJellyfin:
		if err := validateURL("jellyfin.url", c.Jellyfin.URL); err != nil {
			return err
		}
		if !c.Jellyfin.APIKey.IsSet() {
			return errors.New("jellyfin.api_key must be set when viewer is jellyfin (or set JELLYFIN_API_KEY)")
		}
		if c.Jellyfin.User == "" {
			return errors.New("jellyfin.user must be set when viewer is jellyfin")
		}
	default:
		return fmt.Errorf("viewer must be %q or %q, got %q", ViewerPlex, ViewerJellyfin, c.Viewer)
	}
	return nil
}

func (c *Config) validateRetention() error {
	if c.Retention.RetainDuration.Std() < 0 {
		return errors.New("retention.retain_duration must be >= 0")
	}
	switch c.Retention.TitleMatch {
	case TitleMatchExact, TitleMatchFold:
		return nil
	default:
		return fmt.Errorf("retention.title_match must be %q or %q, got %q", TitleMatchExact, TitleMatchFold, c.Retention.TitleMatch)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDaemon() error {
	if c.Daemon.Schedule == "" {
		return errors.New("daemon.schedule must be set")
	}
	if _, err := cron.ParseStandard(c.Daemon.Schedule); err != nil {
		return fmt.Errorf("daemon.schedule: %w", err)
	}
	if c.Daemon.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Daemon.Listen); err != nil {
			return fmt.Errorf("daemon.listen: %w", err)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic != "" {
		if err := validateURL("notifications.ntfy_topic", c.Notifications.NtfyTopic); err != nil {
			return err
		}
	}
	if c.Notifications.RequestTimeout.Std() <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func validateURL(key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s must be set", key)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		// url.Error repeats the input, which may carry credentials.
		return fmt.Errorf("%s is not a valid URL", key)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, parsed.Redacted())
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, parsed.Redacted())
	}
	return nil
}

func displayConfigPath() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return defaultConfigPath
	}
	return path
}
