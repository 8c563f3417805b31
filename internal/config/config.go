package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	LibraryDir  string `toml:"library_dir"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
}

// Processing controls how completed downloads are turned into library entries.
type Processing struct {
	Method              string   `toml:"method"`
	Unpack              bool     `toml:"unpack"`
	DeleteRarContents   bool     `toml:"delete_rar_contents"`
	NoDelete            bool     `toml:"no_delete"`
	PostponeIfSyncFiles bool     `toml:"postpone_if_sync_files"`
	PostponeIfNoSubs    bool     `toml:"postpone_if_no_subs"`
	AllowedExtensions   []string `toml:"allowed_extensions"`
	SyncExtensions      []string `toml:"sync_extensions"`
}

// Subtitles contains the subtitle policy consulted before postponing a file.
type Subtitles struct {
	Languages             []string `toml:"languages"`
	AcceptUnknownEmbedded bool     `toml:"accept_unknown_embedded"`
	IgnoreEmbedded        bool     `toml:"ignore_embedded"`
	FFprobeBinary         string   `toml:"ffprobe_binary"`
}

// FailedDownloads controls handling of downloads reported or detected as failed.
type FailedDownloads struct {
	Enabled      bool `toml:"enabled"`
	DeleteFailed bool `toml:"delete_failed"`
}

// Torrent contains the download client connection used for seed relocation.
type Torrent struct {
	Enabled      bool   `toml:"enabled"`
	Method       string `toml:"method"`
	Host         string `toml:"host"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	SeedLocation string `toml:"seed_location"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	RunSummary     bool   `toml:"run_summary"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for postflow.
//
// Configuration sections by subsystem:
//   - Paths: download root, library, state and log directories
//   - Processing: file-handling method, unpacking, cleanup and postponement policy
//   - Subtitles: wanted languages and embedded-track acceptance
//   - FailedDownloads: failed download handling
//   - Torrent: download client used to relocate seeding torrents
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths           Paths           `toml:"paths"`
	Processing      Processing      `toml:"processing"`
	Subtitles       Subtitles       `toml:"subtitles"`
	FailedDownloads FailedDownloads `toml:"failed_downloads"`
	Torrent         Torrent         `toml:"torrent"`
	Notifications   Notifications   `toml:"notifications"`
	Logging         Logging         `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/postflow/config.toml")
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
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
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

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("postflow.toml")
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

// EnsureDirectories creates the directories postflow writes to. LibraryDir is
// created on a best-effort basis so runs can proceed while external storage is
// temporarily unavailable; the download root is never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		if err := os.MkdirAll(c.Paths.LibraryDir, 0o755); err != nil {
			slog.Debug("library directory not created",
				slog.String("path", c.Paths.LibraryDir),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// HistoryPath returns the location of the history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the lock file used to serialize processing runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "postflow.lock")
}

// SeedRelocationEnabled reports whether finished torrents should be moved to
// the seed location after a run.
func (c *Config) SeedRelocationEnabled() bool {
	if !c.Torrent.Enabled || strings.TrimSpace(c.Torrent.SeedLocation) == "" {
		return false
	}
	switch c.Processing.Method {
	case MethodHardlink, MethodSymlink:
		return true
	default:
		return false
	}
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

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	redacted := *c
	if redacted.Torrent.Password != "" {
		redacted.Torrent.Password = "********"
	}
	data, err := toml.Marshal(redacted)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// CheckKeys decodes the file at path rejecting keys postflow does not know,
// which usually indicate a typo that Load would silently ignore.
func CheckKeys(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	err = toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg)
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return fmt.Errorf("unknown configuration keys:\n%s", strict.String())
	}
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
