package release

import "testing"

func TestParseEpisode(t *testing.T) {
	info, ok := Parse("/downloads/Show.Name.S02E05.720p.HDTV.x264-GRP.mkv")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if info.Show != "Show Name" {
		t.Fatalf("unexpected show %q", info.Show)
	}
	if info.Season != 2 || info.Episode != 5 {
		t.Fatalf("unexpected season/episode %d/%d", info.Season, info.Episode)
	}
	if info.Group != "GRP" {
		t.Fatalf("unexpected group %q", info.Group)
	}
	if !info.Episodic() {
		t.Fatal("expected episodic release")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, ok := Parse(""); ok {
		t.Fatal("expected empty name to fail")
	}
}

func TestFolderName(t *testing.T) {
	if got := FolderName("the  office: us"); got != "The Office Us" {
		t.Fatalf("FolderName = %q", got)
	}
}
