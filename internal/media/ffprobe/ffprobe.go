package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"postflow/internal/language"
	"postflow/internal/services"
)

// subtitleEntries limits the probe to what the subtitle gate reads.
const subtitleEntries = "stream=index,codec_name,codec_type:stream_tags=language,title:stream_disposition=forced,hearing_impaired"

// Result holds the subtitle streams ffprobe reported for a container.
type Result struct {
	Streams []Stream `json:"streams"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Tags        map[string]string `json:"tags"`
	Disposition map[string]int    `json:"disposition"`
}

// Language returns the normalized language tag, or language.Undetermined.
func (s Stream) Language() string {
	return language.Normalize(language.ExtractFromTags(s.Tags))
}

// Forced reports whether the stream only covers foreign dialogue.
func (s Stream) Forced() bool {
	return s.Disposition["forced"] != 0
}

// Inspect runs ffprobe on path, selecting only subtitle streams.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, services.Wrap(services.ErrValidation, "ffprobe", "inspect", "empty path", nil)
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-select_streams", "s",
		"-show_entries", subtitleEntries,
		"-of", "json",
		"--", path,
	)
	output, err := cmd.Output()
	if err != nil {
		msg := "ffprobe failed"
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
				msg = stderr
			}
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "ffprobe", "inspect", msg, err)
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// SubtitleStreams returns the subtitle streams in container order. Payloads
// from Inspect only hold subtitles; the filter keeps Parse usable on full probes.
func (r Result) SubtitleStreams() []Stream {
	var streams []Stream
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "subtitle") {
			streams = append(streams, stream)
		}
	}
	return streams
}

// SubtitleLanguages returns the normalized language of every subtitle stream.
// Untagged streams report language.Undetermined.
func (r Result) SubtitleLanguages() []string {
	streams := r.SubtitleStreams()
	langs := make([]string, 0, len(streams))
	for _, stream := range streams {
		langs = append(langs, stream.Language())
	}
	return langs
}
