package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "POSTFLOW"

// envOverrides lists the settings that may be supplied through POSTFLOW_*
// environment variables. Empty values leave the file configuration intact.
type envOverrides struct {
	DownloadDir     string `envconfig:"DOWNLOAD_DIR"`
	LibraryDir      string `envconfig:"LIBRARY_DIR"`
	StateDir        string `envconfig:"STATE_DIR"`
	Method          string `envconfig:"METHOD"`
	TorrentHost     string `envconfig:"TORRENT_HOST"`
	TorrentUsername string `envconfig:"TORRENT_USERNAME"`
	TorrentPassword string `envconfig:"TORRENT_PASSWORD"`
	SeedLocation    string `envconfig:"SEED_LOCATION"`
	NtfyTopic       string `envconfig:"NTFY_TOPIC"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read environment overrides: %w", err)
	}
	override(&c.Paths.DownloadDir, env.DownloadDir)
	override(&c.Paths.LibraryDir, env.LibraryDir)
	override(&c.Paths.StateDir, env.StateDir)
	override(&c.Processing.Method, env.Method)
	override(&c.Torrent.Host, env.TorrentHost)
	override(&c.Torrent.Username, env.TorrentUsername)
	override(&c.Torrent.Password, env.TorrentPassword)
	override(&c.Torrent.SeedLocation, env.SeedLocation)
	override(&c.Notifications.NtfyTopic, env.NtfyTopic)
	override(&c.Logging.Level, env.LogLevel)
	return nil
}

func override(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
