package subtitles

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"postflow/internal/language"
	"postflow/internal/logging"
	"postflow/internal/media/ffprobe"
	"postflow/internal/mediafile"
)

// ProbeFunc inspects a media container.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Inspector reports embedded and sidecar subtitles.
type Inspector struct {
	binary string
	probe  ProbeFunc
	logger *slog.Logger
}

// NewInspector builds an inspector that shells out to binary.
func NewInspector(binary string, logger *slog.Logger) *Inspector {
	return &Inspector{
		binary: binary,
		probe:  ffprobe.Inspect,
		logger: logging.NewComponentLogger(logger, "subtitles"),
	}
}

// WithProbe replaces the container probe, for tests.
func (i *Inspector) WithProbe(probe ProbeFunc) *Inspector {
	i.probe = probe
	return i
}

// EmbeddedLanguages returns the languages of the subtitle tracks in path.
// Untagged tracks are reported as language.Undetermined. A file that cannot
// be probed yields an empty set.
func (i *Inspector) EmbeddedLanguages(ctx context.Context, path string) (language.Set, error) {
	result, err := i.probe(ctx, i.binary, path)
	if err != nil {
		logging.WarnWithContext(i.logger, "embedded subtitle probe failed", "subtitle_probe_failed",
			logging.Path(path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check subtitles.ffprobe_binary"),
			logging.String(logging.FieldImpact, "embedded subtitles treated as absent"),
		)
		return language.NewSet(), nil
	}
	set := language.NewSet(result.SubtitleLanguages()...)
	i.logger.Debug("embedded subtitles inspected",
		logging.Path(path),
		logging.Int("tracks", len(result.SubtitleStreams())),
	)
	return set, nil
}

// AssociatedSubtitles lists the subtitle sidecars in dir that belong to file:
// names sharing the video's stem, optionally followed by a language or flag
// suffix such as ".en" or ".en.forced".
func (i *Inspector) AssociatedSubtitles(dir, file string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	lowerStem := strings.ToLower(stem)

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || !mediafile.IsSubtitle(entry.Name()) {
			continue
		}
		name := strings.ToLower(entry.Name())
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if base == lowerStem || strings.HasPrefix(base, lowerStem+".") {
			matches = append(matches, entry.Name())
		}
	}
	slices.Sort(matches)
	return matches, nil
}
