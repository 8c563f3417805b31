package ffprobe

import (
	"context"
	"errors"
	"testing"

	"postflow/internal/services"
)

const samplePayload = `{
  "streams": [
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "tags": {"language": "eng"}},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle", "tags": {"language": "ger"}, "disposition": {"forced": 0}},
    {"index": 3, "codec_name": "subrip", "codec_type": "subtitle", "tags": {"title": "Signs"}, "disposition": {"forced": 1}}
  ]
}`

func TestParseSubtitleLanguages(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	langs := result.SubtitleLanguages()
	if len(langs) != 2 {
		t.Fatalf("expected 2 subtitle languages, got %v", langs)
	}
	if langs[0] != "deu" || langs[1] != "und" {
		t.Fatalf("unexpected languages %v", langs)
	}
	streams := result.SubtitleStreams()
	if streams[0].Forced() || !streams[1].Forced() {
		t.Fatalf("unexpected forced flags: %+v", streams)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInspectMissingBinary(t *testing.T) {
	if _, err := Inspect(context.Background(), "/nonexistent/ffprobe", "show.mkv"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
