package preflight

import (
	"context"

	"seasonsweep/internal/config"
	"seasonsweep/internal/inventory"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Targets are the constructed clients to probe. Nil fields are reported as
// failed checks.
type Targets struct {
	Sonarr SonarrProbe
	Watch  inventory.WatchTracker
}

// RunAll executes every check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, targets Targets) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckSonarr(ctx, targets.Sonarr))
	if cfg.Retention.RetainTag != "" {
		results = append(results, CheckRetainTag(ctx, targets.Sonarr, cfg.Retention.RetainTag))
	}
	results = append(results, CheckWatchTracker(ctx, targets.Watch))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
