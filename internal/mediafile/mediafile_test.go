package mediafile

import (
	"slices"
	"testing"
)

func TestIsVideo(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Show.S01E01.720p.mkv", true},
		{"Show.S01E01.720p.MP4", true},
		{"sub/dir/Show.S01E01.avi", true},
		{"Show.S01E01.sample.mkv", false},
		{"sample-show.mkv", false},
		{"Show.S01E01-Sample2.mkv", false},
		{"Sampler.Show.S01E01.mkv", true},
		{"._Show.S01E01.mkv", false},
		{"Show.S01E01.nfo", false},
		{"Show.S01E01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVideo(tt.name); got != tt.want {
				t.Fatalf("IsVideo(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsArchive(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"show.rar", true},
		{"show.RAR", true},
		{"show.part1.rar", true},
		{"show.part01.rar", true},
		{"show.part001.rar", true},
		{"show.part02.rar", false},
		{"show.part10.rar", false},
		{"show.r00", false},
		{"show.zip", true},
		{"show.mkv", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsArchive(tt.name); got != tt.want {
				t.Fatalf("IsArchive(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsSync(t *testing.T) {
	exts := []string{"!sync", "part", "!qB"}
	if !IsSync("Show.S01E01.mkv.part", exts) {
		t.Fatal("expected .part to be a sync file")
	}
	if !IsSync("Show.S01E01.mkv.!qB", exts) {
		t.Fatal("expected .!qB to be a sync file")
	}
	if IsSync("Show.S01E01.mkv.!QB", exts) {
		t.Fatal("sync extensions match exactly")
	}
	if !IsSync(".syncthing.Show.mkv.tmp", exts) {
		t.Fatal("expected syncthing temp file")
	}
	if IsSync("Show.S01E01.mkv", exts) {
		t.Fatal("video is not a sync file")
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier([]string{".srt", "NFO"}, []string{"part"})
	listing := c.Classify([]string{
		"Show.S01E01.mkv",
		"Show.S01E01.srt",
		"Show.S01E01.nfo",
		"Show.S01E01.rar",
		"Show.S01E01.r00",
		"Show.S01E01.sample.mkv",
		"Thumbs.db",
	})

	if !slices.Equal(listing.Videos, []string{"Show.S01E01.mkv"}) {
		t.Fatalf("unexpected videos %v", listing.Videos)
	}
	if !slices.Equal(listing.Archives, []string{"Show.S01E01.rar"}) {
		t.Fatalf("unexpected archives %v", listing.Archives)
	}
	wantUnwanted := []string{"Show.S01E01.rar", "Show.S01E01.r00", "Show.S01E01.sample.mkv", "Thumbs.db"}
	if !slices.Equal(listing.Unwanted, wantUnwanted) {
		t.Fatalf("unexpected unwanted %v", listing.Unwanted)
	}
	if c.HasSyncFiles(listing.Videos) {
		t.Fatal("no sync files expected")
	}
	if !c.HasSyncFiles([]string{"a.mkv", "a.mkv.part"}) {
		t.Fatal("expected sync file detection")
	}
}
