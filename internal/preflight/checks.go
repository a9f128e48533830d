package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/services"
)

const checkTimeout = 30 * time.Second

// SonarrProbe is the subset of the Sonarr client the checks use.
type SonarrProbe interface {
	SystemStatus(ctx context.Context) (string, error)
	FetchTags(ctx context.Context) (inventory.Tags, error)
}

// CheckSonarr verifies the download tracker is reachable and accepts the key.
func CheckSonarr(ctx context.Context, probe SonarrProbe) Result {
	const name = "Sonarr"
	if probe == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	version, err := probe.SystemStatus(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Reachable (v%s)", version)}
}

// CheckRetainTag verifies the exemption tag exists. A missing tag would make
// every sweep abort.
func CheckRetainTag(ctx context.Context, probe SonarrProbe, label string) Result {
	name := fmt.Sprintf("Retain tag %q", label)
	if probe == nil {
		return Result{Name: name, Detail: "Sonarr not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	tags, err := probe.FetchTags(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	tag, ok := tags.Find(label)
	if !ok {
		return Result{Name: name, Detail: "tag not defined in Sonarr"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Found (id %d)", tag.ID)}
}

// CheckWatchTracker lists seasons from the watch tracker.
func CheckWatchTracker(ctx context.Context, tracker inventory.WatchTracker) Result {
	if tracker == nil {
		return Result{Name: "Watch tracker", Detail: "not configured"}
	}
	name := tracker.Name()
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	seasons, err := tracker.AllTVSeasons(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	watched := len(inventory.NewWatchedSet(seasons))
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d seasons, %d fully watched", len(seasons), watched)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeError(err error) string {
	switch {
	case errors.Is(err, services.ErrConfiguration):
		return "auth failed (check api key or token)"
	case errors.Is(err, services.ErrTimeout):
		return "timed out (service unresponsive)"
	case errors.Is(err, services.ErrTransient):
		return fmt.Sprintf("unreachable (%v)", err)
	default:
		return err.Error()
	}
}
