package library_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"postflow/internal/history"
	"postflow/internal/library"
	"postflow/internal/logging"
	"postflow/internal/postprocess"
	"postflow/internal/subtitles"
	"postflow/internal/testsupport"
)

func TestPlacerCopiesIntoSeasonFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	placer := library.NewPlacer(cfg.Paths.LibraryDir, store, nil, logging.NewNop())

	src := filepath.Join(cfg.Paths.DownloadDir, "Show.Name.S01E02.720p.HDTV.x264-GRP", "Show.Name.S01E02.720p.HDTV.x264-GRP.mkv")
	testsupport.WriteFile(t, src, 2048)

	outcome, err := placer.Process(context.Background(), postprocess.MediaRequest{Path: src, Method: postprocess.MethodCopy})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !outcome.Success {
		t.Fatal("expected success")
	}

	target := filepath.Join(cfg.Paths.LibraryDir, "Show Name", "Season 01", filepath.Base(src))
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("copy should keep the source")
	}
	if !strings.Contains(strings.Join(outcome.Output, "\n"), "Copied") {
		t.Fatalf("unexpected output %v", outcome.Output)
	}

	done, err := store.AlreadyProcessed(context.Background(), filepath.Base(src))
	if err != nil || !done {
		t.Fatalf("AlreadyProcessed = %v, %v", done, err)
	}
}

func TestPlacerMovesSubtitlesAndTracksSeed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	releaseName := "Show.Name.S02E05.1080p.WEB-GRP"
	if _, err := store.Record(ctx, history.Entry{Action: history.ActionSnatched, Resource: releaseName, InfoHash: "ABCDEF"}); err != nil {
		t.Fatalf("record snatch: %v", err)
	}

	dir := filepath.Join(cfg.Paths.DownloadDir, releaseName)
	src := filepath.Join(dir, releaseName+".mkv")
	testsupport.WriteFile(t, src, 512)
	testsupport.WriteFile(t, filepath.Join(dir, releaseName+".en.srt"), 16)

	placer := library.NewPlacer(cfg.Paths.LibraryDir, store, subtitles.NewInspector("ffprobe", logging.NewNop()), logging.NewNop())
	if _, err := placer.Process(ctx, postprocess.MediaRequest{Path: src, Method: postprocess.MethodMove}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	season := filepath.Join(cfg.Paths.LibraryDir, "Show Name", "Season 02")
	for _, name := range []string{releaseName + ".mkv", releaseName + ".en.srt"} {
		if _, err := os.Stat(filepath.Join(season, name)); err != nil {
			t.Fatalf("%s not placed: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s should have been moved", name)
		}
	}

	seeds, err := store.TrackedSeeds(ctx)
	if err != nil {
		t.Fatalf("TrackedSeeds: %v", err)
	}
	if len(seeds) != 1 || seeds[0].InfoHash != "abcdef" {
		t.Fatalf("unexpected seeds %+v", seeds)
	}
}

func TestPlacerRefusesExistingTarget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	placer := library.NewPlacer(cfg.Paths.LibraryDir, store, nil, nil)

	name := "Show.Name.S01E03.mkv"
	src := filepath.Join(cfg.Paths.DownloadDir, name)
	testsupport.WriteFile(t, src, 10)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.LibraryDir, "Show Name", "Season 01", name), 10)

	_, err := placer.Process(context.Background(), postprocess.MediaRequest{Path: src, Method: postprocess.MethodHardlink})
	if !errors.Is(err, postprocess.ErrProcessingFailed) {
		t.Fatalf("expected processing failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "destination already exists") {
		t.Fatalf("unexpected message %v", err)
	}
}

func TestPlacerRejectsUnparseableNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	placer := library.NewPlacer(cfg.Paths.LibraryDir, store, nil, nil)

	src := filepath.Join(cfg.Paths.DownloadDir, "holiday", "holiday.mkv")
	testsupport.WriteFile(t, src, 10)

	_, err := placer.Process(context.Background(), postprocess.MediaRequest{Path: src, Method: postprocess.MethodCopy})
	if !errors.Is(err, postprocess.ErrProcessingFailed) {
		t.Fatalf("expected processing failure, got %v", err)
	}
}

func TestPlacerFallsBackToResourceName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	placer := library.NewPlacer(cfg.Paths.LibraryDir, store, nil, nil)

	src := filepath.Join(cfg.Paths.DownloadDir, "x", "abc123.mkv")
	testsupport.WriteFile(t, src, 10)

	_, err := placer.Process(context.Background(), postprocess.MediaRequest{
		Path:         src,
		ResourceName: "Other.Show.S03E01.720p-GRP",
		Method:       postprocess.MethodSymlink,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	target := filepath.Join(cfg.Paths.LibraryDir, "Other Show", "Season 03", "abc123.mkv")
	info, err := os.Lstat(target)
	if err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatal("expected a symlink")
	}
}

func TestFailedHandlerRecordsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	handler := library.NewFailedHandler(store, logging.NewNop())
	ctx := context.Background()

	dir := filepath.Join(cfg.Paths.DownloadDir, "_FAILED_Show.Name.S01E04-GRP")
	outcome, err := handler.ProcessFailed(ctx, dir, "")
	if err != nil {
		t.Fatalf("ProcessFailed: %v", err)
	}
	if !outcome.Success || len(outcome.Output) == 0 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Action != history.ActionFailed || entries[0].Resource != "Show.Name.S01E04-GRP" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestPlacerPriorityReplacesExistingTarget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	placer := library.NewPlacer(cfg.Paths.LibraryDir, store, nil, nil)

	name := "Show.Name.S01E03.mkv"
	src := filepath.Join(cfg.Paths.DownloadDir, name)
	testsupport.WriteFile(t, src, 64)
	target := filepath.Join(cfg.Paths.LibraryDir, "Show Name", "Season 01", name)
	testsupport.WriteFile(t, target, 8)

	if _, err := placer.Process(context.Background(), postprocess.MediaRequest{Path: src, Method: postprocess.MethodCopy, Priority: true}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil || info.Size() != 64 {
		t.Fatalf("target not replaced: %v %v", info, err)
	}
}
