package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"postflow/internal/testsupport"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckDirectoryAccess("test", f).Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckTorrent(t *testing.T) {
	ctx := context.Background()
	if !CheckTorrent(ctx, stubPinger{}).Passed {
		t.Fatal("expected successful login to pass")
	}
	if res := CheckTorrent(ctx, stubPinger{err: errors.New("forbidden")}); res.Passed || res.Detail != "forbidden" {
		t.Fatalf("unexpected result %#v", res)
	}
	if CheckTorrent(ctx, nil).Passed {
		t.Fatal("expected missing client to fail")
	}
}

func TestRunAllSkipsDisabledFeatures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	results := RunAll(context.Background(), cfg, nil)
	for _, r := range results {
		if r.Name == "qBittorrent" || r.Name == "FFprobe" || r.Name == "Seed location" {
			t.Fatalf("unexpected check %q for disabled feature", r.Name)
		}
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %#v", results)
	}
}

func TestRunAllReportsMissingFFprobe(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPostponeIfNoSubs())
	cfg.Subtitles.FFprobeBinary = "clearly-not-present-ffprobe"
	results := RunAll(context.Background(), cfg, nil)
	if !Failed(results) {
		t.Fatal("expected missing ffprobe to fail the run")
	}
	found := false
	for _, r := range results {
		if r.Name == "FFprobe" {
			found = true
			if r.Passed {
				t.Fatalf("expected ffprobe check to fail, got %#v", r)
			}
		}
	}
	if !found {
		t.Fatal("expected ffprobe check when postponing on missing subtitles")
	}
}

func TestRunAllIncludesTorrentCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSeedLocation(), testsupport.WithMethod("hardlink"))
	results := RunAll(context.Background(), cfg, stubPinger{})
	var names []string
	for _, r := range results {
		names = append(names, r.Name)
	}
	want := map[string]bool{"Seed location": false, "qBittorrent": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Fatalf("expected %q in %v", n, names)
		}
	}
}
