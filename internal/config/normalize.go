package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProcessing()
	c.normalizeSubtitles()
	c.normalizeTorrent()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DownloadDir, err = expandPath(strings.TrimSpace(c.Paths.DownloadDir)); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProcessing() {
	c.Processing.Method = strings.ToLower(strings.TrimSpace(c.Processing.Method))
	if c.Processing.Method == "" {
		c.Processing.Method = defaultMethod
	}
	c.Processing.AllowedExtensions = normalizeExtensions(c.Processing.AllowedExtensions, true)
	c.Processing.SyncExtensions = normalizeExtensions(c.Processing.SyncExtensions, false)
}

func (c *Config) normalizeSubtitles() {
	if len(c.Subtitles.Languages) == 0 {
		c.Subtitles.Languages = []string{defaultSubtitleLanguage}
	} else {
		langs := make([]string, 0, len(c.Subtitles.Languages))
		seen := make(map[string]struct{}, len(c.Subtitles.Languages))
		for _, lang := range c.Subtitles.Languages {
			normalized := strings.ToLower(strings.TrimSpace(lang))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			langs = append(langs, normalized)
		}
		if len(langs) == 0 {
			langs = []string{defaultSubtitleLanguage}
		}
		c.Subtitles.Languages = langs
	}
	c.Subtitles.FFprobeBinary = strings.TrimSpace(c.Subtitles.FFprobeBinary)
	if c.Subtitles.FFprobeBinary == "" {
		c.Subtitles.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeTorrent() {
	c.Torrent.Method = strings.ToLower(strings.TrimSpace(c.Torrent.Method))
	if c.Torrent.Method == "" {
		c.Torrent.Method = defaultTorrentMethod
	}
	c.Torrent.Host = strings.TrimRight(strings.TrimSpace(c.Torrent.Host), "/")
	c.Torrent.Username = strings.TrimSpace(c.Torrent.Username)
	c.Torrent.SeedLocation = strings.TrimSpace(c.Torrent.SeedLocation)
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

// normalizeExtensions strips leading dots and duplicates. Sync markers such as
// "!qb" and "!qB" differ only by case, so folding is optional.
func normalizeExtensions(values []string, fold bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.TrimPrefix(strings.TrimSpace(value), ".")
		if fold {
			ext = strings.ToLower(ext)
		}
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
