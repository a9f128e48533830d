package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"seasonsweep/internal/timespan"
)

//go:embed sample_config.toml
var sampleConfig string

// Viewer names accepted by the top-level viewer key.
const (
	ViewerPlex     = "plex"
	ViewerJellyfin = "jellyfin"
)

// Title matching policies accepted by retention.title_match.
const (
	TitleMatchExact = "exact"
	TitleMatchFold  = "fold"
)

// Sonarr contains the download tracker connection and deletion retry settings.
type Sonarr struct {
	URL                  string            `toml:"url"`
	APIKey               Secret            `toml:"api_key"`
	DeleteMaxAttempts    int               `toml:"delete_max_attempts"`
	DeleteInitialBackoff timespan.Duration `toml:"delete_initial_backoff"`
	DeleteMaxBackoff     timespan.Duration `toml:"delete_max_backoff"`
}

// Plex contains configuration for the Plex watch tracker.
type Plex struct {
	URL   string `toml:"url"`
	Token Secret `toml:"token"`
}

// Jellyfin contains configuration for the Jellyfin watch tracker.
type Jellyfin struct {
	URL    string `toml:"url"`
	APIKey Secret `toml:"api_key"`
	User   string `toml:"user"`
}

// Retention holds the season retention policy.
type Retention struct {
	RetainTag      string            `toml:"retain_tag"`
	RetainDuration timespan.Duration `toml:"retain_duration"`
	TitleMatch     string            `toml:"title_match"`
}

// HTTP holds settings shared by every outbound client.
type HTTP struct {
	Timeout timespan.Duration `toml:"timeout"`
}

// Paths contains on-disk locations.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Daemon configures scheduled sweeps.
type Daemon struct {
	Schedule    string `toml:"schedule"`
	Listen      string `toml:"listen"`
	DeleteFiles bool   `toml:"delete_files"`
	RunOnStart  bool   `toml:"run_on_start"`
}

// Metrics configures Prometheus output for one-shot runs.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string            `toml:"ntfy_topic"`
	RequestTimeout timespan.Duration `toml:"request_timeout"`
	OnSuccess      bool              `toml:"on_success"`
	OnFailure      bool              `toml:"on_failure"`
	OnDryRun       bool              `toml:"on_dry_run"`
}

// Config encapsulates all configuration values for seasonsweep.
//
// Configuration sections by subsystem:
//   - Viewer: which watch tracker supplies watch state (plex or jellyfin)
//   - Sonarr: download tracker connection and delete retry policy
//   - Plex, Jellyfin: watch tracker connections
//   - Retention: exemption tag, grace period, title matching
//   - HTTP: outbound request timeout
//   - Paths: state and log directories
//   - Logging: log format and level
//   - Daemon: cron schedule and status listener
//   - Metrics: node_exporter textfile output
//   - Notifications: ntfy push notification settings
type Config struct {
	Viewer        string        `toml:"viewer"`
	Sonarr        Sonarr        `toml:"sonarr"`
	Plex          Plex          `toml:"plex"`
	Jellyfin      Jellyfin      `toml:"jellyfin"`
	Retention     Retention     `toml:"retention"`
	HTTP          HTTP          `toml:"http"`
	Paths         Paths         `toml:"paths"`
	Logging       Logging       `toml:"logging"`
	Daemon        Daemon        `toml:"daemon"`
	Metrics       Metrics       `toml:"metrics"`
	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, describeDecodeError(err))
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func describeDecodeError(err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return errors.New(strings.TrimSpace(strict.String()))
	}
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("line %d column %d: %w", row, col, err)
	}
	return err
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("seasonsweep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the run lock location inside the state directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "seasonsweep.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	// The sample holds credentials once edited.
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
