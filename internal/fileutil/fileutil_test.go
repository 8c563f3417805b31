package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	data := make([]byte, 64*1024)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(src, data, 0o640); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(data) {
		t.Fatalf("size mismatch: got %d, want %d", len(got), len(data))
	}
}

func TestCopyFileVerifiedRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dst := filepath.Join(dir, "dst.mkv")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := CopyFileVerified(src, dst)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "old" {
		t.Fatalf("destination modified: %q", got)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFileVerified(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")
	dst := filepath.Join(dir, "b.mkv")
	if err := os.WriteFile(src, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if Exists(src) {
		t.Fatal("source should be gone")
	}
	if !Exists(dst) {
		t.Fatal("destination missing")
	}
}

func TestLinks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")
	if err := os.WriteFile(src, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}

	hard := filepath.Join(dir, "hard.mkv")
	if err := Hardlink(src, hard); err != nil {
		t.Fatal(err)
	}
	srcInfo, _ := os.Stat(src)
	hardInfo, _ := os.Stat(hard)
	if !os.SameFile(srcInfo, hardInfo) {
		t.Fatal("expected hard link to share inode")
	}
	if err := Hardlink(src, hard); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	soft := filepath.Join(dir, "soft.mkv")
	if err := Symlink(src, soft); err != nil {
		t.Fatal(err)
	}
	target, err := os.Readlink(soft)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(target) {
		t.Fatalf("expected absolute target, got %q", target)
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden("/downloads/.partial") {
		t.Fatal("expected dot dir to be hidden")
	}
	if IsHidden("/downloads/Show.S01E01") {
		t.Fatal("dots inside a name do not hide it")
	}
}

func TestMakeWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.nfo")
	if err := os.WriteFile(path, []byte("x"), 0o444); err != nil {
		t.Fatal(err)
	}
	if err := MakeWritable(path); err != nil {
		t.Fatal(err)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm()&0o200 == 0 {
		t.Fatalf("expected owner write bit, got %o", info.Mode().Perm())
	}
}

func TestSamePathFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Fatal(err)
	}
	if !SamePath(real, link+"/") {
		t.Fatal("expected symlinked path to match")
	}
	if SamePath(real, dir) {
		t.Fatal("parent should not match")
	}
	if SamePath("", real) {
		t.Fatal("empty path never matches")
	}
}

func TestIsDirEmptyAndListFiles(t *testing.T) {
	dir := t.TempDir()
	empty, err := IsDirEmpty(dir)
	if err != nil || !empty {
		t.Fatalf("expected empty dir, got %v %v", empty, err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "Subs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Subs", "en.srt"), []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty, err = IsDirEmpty(dir)
	if err != nil || empty {
		t.Fatalf("expected non-empty dir, got %v %v", empty, err)
	}
	files, err := ListFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != filepath.Join("Subs", "en.srt") {
		t.Fatalf("unexpected files %v", files)
	}
}
