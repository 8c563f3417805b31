package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"postflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The download root is created; other directories are left to the code under
// test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Notifications.NtfyTopic = ""

	if err := os.MkdirAll(cfgVal.Paths.DownloadDir, 0o755); err != nil {
		t.Fatalf("mkdir download dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMethod sets the file-handling strategy.
func WithMethod(method string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.Method = method
	}
}

// WithPostponeIfNoSubs enables the subtitle postponement policy with the
// given wanted languages.
func WithPostponeIfNoSubs(languages ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.PostponeIfNoSubs = true
		if len(languages) > 0 {
			b.cfg.Subtitles.Languages = languages
		}
	}
}

// WithFailedDownloads enables failed-download handling.
func WithFailedDownloads(deleteFailed bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.FailedDownloads.Enabled = true
		b.cfg.FailedDownloads.DeleteFailed = deleteFailed
	}
}

// WithSeedLocation enables torrent seed relocation into a temp directory.
func WithSeedLocation() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Torrent.Enabled = true
		b.cfg.Torrent.SeedLocation = filepath.Join(b.baseDir, "seeds")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. The stubs print body to stdout.
func WithStubbedBinaries(body string, names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		payload := filepath.Join(binDir, "stub-output")
		if err := os.WriteFile(payload, []byte(body), 0o644); err != nil {
			b.t.Fatalf("write stub output: %v", err)
		}
		script := []byte("#!/bin/sh\ncat '" + payload + "'\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DownloadDir)
}
