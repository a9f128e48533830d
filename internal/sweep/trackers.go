package sweep

import (
	"fmt"
	"log/slog"

	"seasonsweep/internal/config"
	"seasonsweep/internal/inventory"
	"seasonsweep/internal/logging"
	"seasonsweep/internal/services"
	"seasonsweep/internal/services/jellyfin"
	"seasonsweep/internal/services/plex"
	"seasonsweep/internal/services/sonarr"
)

// Trackers are the clients a pass talks to.
type Trackers struct {
	Sonarr *sonarr.Client
	Watch  inventory.WatchTracker
}

// NewTrackers builds the Sonarr client and the configured watch tracker.
func NewTrackers(cfg *config.Config, logger *slog.Logger) (Trackers, error) {
	if cfg == nil {
		return Trackers{}, services.Wrap(services.ErrConfiguration, "sweep", "build trackers", "configuration unavailable", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := cfg.HTTP.Timeout.Std()

	download, err := sonarr.New(cfg.Sonarr.URL, cfg.Sonarr.APIKey.Reveal(),
		sonarr.WithTimeout(timeout),
		sonarr.WithLogger(logging.NewComponentLogger(logger, "sonarr")),
		sonarr.WithRetryPolicy(sonarr.RetryPolicy{
			MaxAttempts:     cfg.Sonarr.DeleteMaxAttempts,
			InitialInterval: cfg.Sonarr.DeleteInitialBackoff.Std(),
			MaxInterval:     cfg.Sonarr.DeleteMaxBackoff.Std(),
		}),
	)
	if err != nil {
		return Trackers{}, err
	}

	var watch inventory.WatchTracker
	switch cfg.Viewer {
	case config.ViewerPlex:
		watch, err = plex.New(cfg.Plex.URL, cfg.Plex.Token.Reveal(),
			plex.WithTimeout(timeout),
			plex.WithLogger(logging.NewComponentLogger(logger, "plex")),
		)
	case config.ViewerJellyfin:
		watch, err = jellyfin.New(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey.Reveal(), cfg.Jellyfin.User,
			jellyfin.WithTimeout(timeout),
			jellyfin.WithLogger(logging.NewComponentLogger(logger, "jellyfin")),
		)
	default:
		err = services.Wrap(services.ErrConfiguration, "sweep", "build trackers", fmt.Sprintf("unknown viewer %q", cfg.Viewer), nil)
	}
	if err != nil {
		return Trackers{}, err
	}
	return Trackers{Sonarr: download, Watch: watch}, nil
}
