package config

import (
	"time"

	"seasonsweep/internal/timespan"
)

const (
	defaultConfigPath           = "~/.config/seasonsweep/config.toml"
	defaultStateDir             = "~/.local/share/seasonsweep"
	defaultSonarrURL            = "http://localhost:8989/api/v3/"
	defaultPlexURL              = "http://localhost:32400/"
	defaultJellyfinURL          = "http://localhost:8096/"
	defaultDeleteMaxAttempts    = 8
	defaultDeleteInitialBackoff = 200 * time.Millisecond
	defaultDeleteMaxBackoff     = 30 * time.Second
	defaultHTTPTimeout          = 30 * time.Second
	defaultNotifyTimeout        = 10 * time.Second
	defaultRetainTag            = ""
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultDaemonSchedule       = "0 4 * * *"
	defaultDaemonListen         = "127.0.0.1:9797"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Viewer: ViewerPlex,
		Sonarr: Sonarr{
			URL:                  defaultSonarrURL,
			DeleteMaxAttempts:    defaultDeleteMaxAttempts,
			DeleteInitialBackoff: timespan.Duration(defaultDeleteInitialBackoff),
			DeleteMaxBackoff:     timespan.Duration(defaultDeleteMaxBackoff),
		},
		Plex:     Plex{URL: defaultPlexURL},
		Jellyfin: Jellyfin{URL: defaultJellyfinURL},
		Retention: Retention{
			RetainTag:  defaultRetainTag,
			TitleMatch: TitleMatchExact,
		},
		HTTP:  HTTP{Timeout: timespan.Duration(defaultHTTPTimeout)},
		Paths: Paths{StateDir: defaultStateDir},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Daemon: Daemon{
			Schedule: defaultDaemonSchedule,
			Listen:   defaultDaemonListen,
		},
		Notifications: Notifications{
			RequestTimeout: timespan.Duration(defaultNotifyTimeout),
			OnSuccess:      true,
			OnFailure:      true,
		},
	}
}
