package postprocess_test

import (
	"os"
	"path/filepath"
	"testing"

	"postflow/internal/postprocess"
)

func TestParseMethod(t *testing.T) {
	for _, value := range []string{"copy", "Move", " hardlink ", "SYMLINK"} {
		if _, err := postprocess.ParseMethod(value); err != nil {
			t.Fatalf("ParseMethod(%q): %v", value, err)
		}
	}
	if _, err := postprocess.ParseMethod("reflink"); err == nil {
		t.Fatal("expected error for unknown method")
	}
	if !postprocess.MethodSymlink.IsLink() || postprocess.MethodMove.IsLink() {
		t.Fatal("IsLink mismatch")
	}
}

func TestParseProcType(t *testing.T) {
	got, err := postprocess.ParseProcType("")
	if err != nil || got != postprocess.ProcAuto {
		t.Fatalf("empty type = %q, %v", got, err)
	}
	if got, _ := postprocess.ParseProcType("MANUAL"); got != postprocess.ProcManual {
		t.Fatalf("manual type = %q", got)
	}
	if _, err := postprocess.ParseProcType("scheduled"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestResolveDirectory(t *testing.T) {
	base := t.TempDir()
	downloads := filepath.Join(base, "downloads")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		t.Fatal(err)
	}

	dir, ok := postprocess.ResolveDirectory(downloads, "")
	if !ok {
		t.Fatal("existing directory should resolve")
	}
	want, _ := filepath.EvalSymlinks(downloads)
	if dir != want {
		t.Fatalf("dir = %q, want %q", dir, want)
	}

	if _, ok := postprocess.ResolveDirectory(filepath.Join(base, "missing"), downloads); ok {
		t.Fatal("missing path outside the download root should not resolve")
	}
	if _, ok := postprocess.ResolveDirectory("", downloads); ok {
		t.Fatal("empty path should not resolve")
	}

	file := filepath.Join(base, "file.mkv")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := postprocess.ResolveDirectory(file, ""); ok {
		t.Fatal("a file should not resolve")
	}
}
