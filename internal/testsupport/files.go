package testsupport

import (
	"archive/zip"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// WriteFile creates path, with parent directories, holding size bytes of
// filler. Sizes <= 0 write a single byte so the file is never empty.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	mkParent(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if _, err := io.CopyN(f, filler{}, max(size, 1)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// filler is an endless stream of 'B'.
type filler struct{}

func (filler) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'B'
	}
	return len(p), nil
}

func mkParent(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}

// WriteZip creates a ZIP archive at path holding the named entries.
func WriteZip(t testing.TB, path string, entries map[string]string) {
	t.Helper()
	mkParent(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	w := zip.NewWriter(f)
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(entries[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}
