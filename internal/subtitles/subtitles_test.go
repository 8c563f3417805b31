package subtitles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"postflow/internal/logging"
	"postflow/internal/media/ffprobe"
)

func TestEmbeddedLanguages(t *testing.T) {
	inspector := NewInspector("ffprobe", logging.NewNop()).WithProbe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{
			{CodecType: "video"},
			{CodecType: "subtitle", Tags: map[string]string{"language": "eng"}},
			{CodecType: "subtitle"},
		}}, nil
	})

	set, err := inspector.EmbeddedLanguages(context.Background(), "show.mkv")
	if err != nil {
		t.Fatalf("EmbeddedLanguages: %v", err)
	}
	if !set.Has("en") || !set.HasUndetermined() || len(set) != 2 {
		t.Fatalf("unexpected set %v", set)
	}
}

func TestEmbeddedLanguagesProbeFailureIsEmpty(t *testing.T) {
	inspector := NewInspector("ffprobe", nil).WithProbe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, errors.New("exit status 1")
	})
	set, err := inspector.EmbeddedLanguages(context.Background(), "show.mkv")
	if err != nil || len(set) != 0 {
		t.Fatalf("expected empty set, got %v %v", set, err)
	}
}

func TestAssociatedSubtitles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"Show.S01E01.mkv",
		"Show.S01E01.srt",
		"Show.S01E01.en.forced.srt",
		"Show.S01E01.nfo",
		"Show.S01E010.srt",
		"Show.S01E02.srt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := NewInspector("", nil).AssociatedSubtitles(dir, "Show.S01E01.mkv")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Show.S01E01.en.forced.srt", "Show.S01E01.srt"}
	if !slices.Equal(got, want) {
		t.Fatalf("AssociatedSubtitles = %v, want %v", got, want)
	}
}

type fakeShows map[string]bool

func (f fakeShows) ShowSubtitles(_ context.Context, name string) (bool, bool, error) {
	enabled, ok := f[name]
	return enabled, ok, nil
}

func TestShowPolicy(t *testing.T) {
	policy := NewShowPolicy(fakeShows{"Show Name": true, "Other Show": false})
	ctx := context.Background()

	enabled, err := policy.SubtitlesEnabled(ctx, "/dl/Show.Name.S01E01.720p-GRP.mkv", "")
	if err != nil || !enabled {
		t.Fatalf("expected enabled, got %v %v", enabled, err)
	}
	enabled, _ = policy.SubtitlesEnabled(ctx, "/dl/Other.Show.S01E01.720p-GRP.mkv", "")
	if enabled {
		t.Fatal("expected disabled show")
	}
	enabled, _ = policy.SubtitlesEnabled(ctx, "/dl/abc123.mkv", "Show.Name.S01E01.720p-GRP")
	if !enabled {
		t.Fatal("expected resource name fallback")
	}
	enabled, _ = policy.SubtitlesEnabled(ctx, "/dl/Unknown.Show.S01E01.mkv", "")
	if enabled {
		t.Fatal("unknown show must be disabled")
	}
}
