package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateTorrent(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProcessing() error {
	switch c.Processing.Method {
	case MethodCopy, MethodMove, MethodHardlink, MethodSymlink:
	default:
		return fmt.Errorf("processing.method: unsupported value %q (use copy, move, hardlink, or symlink)", c.Processing.Method)
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	return nil
}

func (c *Config) validateTorrent() error {
	if !c.Torrent.Enabled {
		return nil
	}
	if c.Torrent.Method != defaultTorrentMethod {
		return fmt.Errorf("torrent.method: unsupported value %q", c.Torrent.Method)
	}
	if c.Torrent.Host == "" {
		return errors.New("torrent.host must be set when torrent.enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
