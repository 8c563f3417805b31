package postprocess

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveDirectory maps a requested path to a processable directory. An
// existing directory resolves to its real absolute path. Otherwise, when the
// path names the configured download root, the last segment of the original
// path is joined onto that root, which covers download clients that report a
// different mount prefix. ok is false when neither applies.
func ResolveDirectory(path, downloadDir string) (dir string, ok bool) {
	if strings.TrimSpace(path) == "" {
		return "", false
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", false
		}
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			abs = real
		}
		return abs, true
	}

	if downloadDir == "" {
		return "", false
	}
	if info, err := os.Stat(downloadDir); err != nil || !info.IsDir() {
		return "", false
	}
	if filepath.Clean(path) != filepath.Clean(downloadDir) {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return filepath.Join(downloadDir, filepath.Base(abs)), true
}
