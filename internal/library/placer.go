package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"postflow/internal/fileutil"
	"postflow/internal/history"
	"postflow/internal/logging"
	"postflow/internal/postprocess"
	"postflow/internal/release"
	"postflow/internal/services"
)

// Store is the slice of the history store the library collaborators write to.
type Store interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
	SnatchedHash(ctx context.Context, release string) (string, error)
	TrackSeed(ctx context.Context, infoHash, release string) error
}

// SubtitleFinder lists subtitle sidecars belonging to a video.
type SubtitleFinder interface {
	AssociatedSubtitles(dir, file string) ([]string, error)
}

// Placer moves, copies, or links episodes into the library.
type Placer struct {
	root      string
	store     Store
	subtitles SubtitleFinder
	logger    *slog.Logger
}

// NewPlacer constructs a placer rooted at libraryDir. subtitles may be nil,
// in which case sidecars stay behind.
func NewPlacer(libraryDir string, store Store, subtitles SubtitleFinder, logger *slog.Logger) *Placer {
	return &Placer{
		root:      libraryDir,
		store:     store,
		subtitles: subtitles,
		logger:    logging.NewComponentLogger(logger, "library"),
	}
}

// Process places one video. Unparseable names and occupied destinations are
// reported as processing failures; priority requests replace the occupant.
func (p *Placer) Process(ctx context.Context, req postprocess.MediaRequest) (postprocess.Outcome, error) {
	logger := logging.WithContext(ctx, p.logger)
	name := filepath.Base(req.Path)
	output := []string{fmt.Sprintf("Processing %s", req.Path)}

	info, ok := parseEpisode(name, req.ResourceName, filepath.Base(filepath.Dir(req.Path)))
	if !ok {
		return postprocess.Outcome{}, postprocess.ProcessingFailed("unable to determine show and season from %s", name)
	}

	srcInfo, err := os.Stat(req.Path)
	if err != nil {
		return postprocess.Outcome{}, postprocess.ProcessingFailed("source unavailable: %v", err)
	}

	targetDir := filepath.Join(p.root, release.FolderName(info.Show), fmt.Sprintf("Season %02d", info.Season))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return postprocess.Outcome{}, p.placementError("ensure season folder", targetDir, err)
	}

	target := filepath.Join(targetDir, name)
	if req.Priority && fileutil.Exists(target) {
		if err := os.Remove(target); err != nil {
			return postprocess.Outcome{}, p.placementError("replace existing episode", target, err)
		}
		output = append(output, fmt.Sprintf("Replacing existing library file %s", target))
	}
	if err := place(req.Method, req.Path, target); err != nil {
		return postprocess.Outcome{}, p.placementError("place episode", target, err)
	}
	output = append(output, fmt.Sprintf("%s %s to %s", verb(req.Method), name, target))
	logger.Info("episode placed",
		logging.Path(target),
		logging.String("show", info.Show),
		logging.Int("season", info.Season),
		logging.Int("episode", info.Episode),
		logging.String("method", string(req.Method)),
		logging.Bool("priority", req.Priority),
	)

	output = append(output, p.placeSubtitles(ctx, req, targetDir)...)

	if _, err := p.store.Record(ctx, history.Entry{
		Action:   history.ActionDownloaded,
		Resource: req.Path,
		Show:     info.Show,
		Size:     srcInfo.Size(),
	}); err != nil {
		return postprocess.Outcome{}, services.Wrap(services.ErrTransient, "library", "record history", "Failed to record processed episode", err)
	}

	if line := p.trackSeed(ctx, req); line != "" {
		output = append(output, line)
	}
	return postprocess.Outcome{Success: true, Output: output}, nil
}

// placeSubtitles carries sidecar subtitles to the season folder. Failures
// are reported but never fail the episode.
func (p *Placer) placeSubtitles(ctx context.Context, req postprocess.MediaRequest, targetDir string) []string {
	if p.subtitles == nil {
		return nil
	}
	logger := logging.WithContext(ctx, p.logger)
	dir, name := filepath.Dir(req.Path), filepath.Base(req.Path)

	sidecars, err := p.subtitles.AssociatedSubtitles(dir, name)
	if err != nil {
		logging.WarnWithContext(logger, "listing subtitle sidecars failed", "subtitle_list_failed",
			logging.Path(dir),
			logging.Error(err),
			logging.String(logging.FieldImpact, "subtitles stay in the download folder"),
		)
		return nil
	}

	var lines []string
	for _, sidecar := range sidecars {
		target := filepath.Join(targetDir, sidecar)
		if err := place(req.Method, filepath.Join(dir, sidecar), target); err != nil {
			logging.WarnWithContext(logger, "placing subtitle failed", "subtitle_place_failed",
				logging.Path(target),
				logging.Error(err),
				logging.String(logging.FieldImpact, "subtitle left in the download folder"),
			)
			lines = append(lines, fmt.Sprintf("Unable to place subtitle %s: %v", sidecar, err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s subtitle %s to %s", verb(req.Method), sidecar, target))
	}
	return lines
}

// trackSeed remembers the torrent the episode was snatched from. Lookup
// failures only cost a later relocation, so they are logged and dropped.
func (p *Placer) trackSeed(ctx context.Context, req postprocess.MediaRequest) string {
	logger := logging.WithContext(ctx, p.logger)
	for _, candidate := range releaseCandidates(req) {
		hash, err := p.store.SnatchedHash(ctx, candidate)
		if err != nil {
			logging.WarnWithContext(logger, "snatch lookup failed", "seed_lookup_failed",
				logging.String("release", candidate),
				logging.Error(err),
			)
			return ""
		}
		if hash == "" {
			continue
		}
		if err := p.store.TrackSeed(ctx, hash, candidate); err != nil {
			logging.WarnWithContext(logger, "seed tracking failed", "seed_track_failed",
				logging.String("info_hash", hash),
				logging.Error(err),
				logging.String(logging.FieldImpact, "torrent will not be moved to seed storage"),
			)
			return ""
		}
		return fmt.Sprintf("Tracking torrent %s for release %s", hash, candidate)
	}
	return ""
}

// placementError separates an unreachable library, which aborts the run,
// from failures confined to this episode.
func (p *Placer) placementError(op, target string, err error) error {
	switch {
	case errors.Is(err, fileutil.ErrExists):
		return postprocess.ProcessingFailed("destination already exists: %s", target)
	case isLibraryUnavailable(err):
		return services.Wrap(services.ErrTransient, "library", op, "Library filesystem unavailable; check the library mount", err)
	default:
		return postprocess.ProcessingFailed("%s: %v", op, err)
	}
}

// parseEpisode tries each name in order and keeps the first that yields a
// show and season.
func parseEpisode(names ...string) (release.Info, bool) {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if info, ok := release.Parse(name); ok && info.Episodic() {
			return info, true
		}
	}
	return release.Info{}, false
}

// releaseCandidates lists the names a snatch may have been recorded under.
func releaseCandidates(req postprocess.MediaRequest) []string {
	name := filepath.Base(req.Path)
	seen := map[string]bool{}
	var out []string
	for _, candidate := range []string{
		req.ResourceName,
		filepath.Base(filepath.Dir(req.Path)),
		strings.TrimSuffix(name, filepath.Ext(name)),
		name,
	} {
		candidate = strings.TrimSpace(candidate)
		key := strings.ToLower(candidate)
		if candidate == "" || candidate == "." || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, candidate)
	}
	return out
}
