package postprocess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"postflow/internal/language"
	"postflow/internal/logging"
)

// processFiles hands the videos of state to the media processor. Videos
// unpacked from archives are moved rather than linked, since the extracted
// copies are transient.
func (r *run) processFiles(ctx context.Context, state *dirState) error {
	if r.resourceName != "" && len(uniqueSorted(state.videos)) > 1 {
		r.resourceName = ""
	}

	if len(state.videoInRar) == 0 {
		postponed, err := r.processMedia(ctx, state, uniqueSorted(state.videos), r.method)
		state.postponed = state.postponed || postponed
		return err
	}

	all := uniqueSorted(state.videos)
	inRar := uniqueSorted(state.videoInRar)

	if r.method.IsLink() {
		postponed, err := r.processMedia(ctx, state, inRar, MethodMove)
		state.postponed = state.postponed || postponed
		if err != nil {
			return err
		}
		if !postponed {
			r.deleteFiles(ctx, state.path, state.rarContent, false)
		}

		rest := make([]string, 0, len(all))
		for _, name := range all {
			if !slices.Contains(inRar, name) {
				rest = append(rest, name)
			}
		}
		postponed, err = r.processMedia(ctx, state, rest, r.method)
		state.postponed = state.postponed || postponed
		return err
	}

	postponed, err := r.processMedia(ctx, state, all, r.method)
	state.postponed = state.postponed || postponed
	if err != nil {
		return err
	}
	if r.settings.DeleteRarContents && !postponed {
		r.deleteFiles(ctx, state.path, state.rarContent, false)
	}
	return nil
}

// processMedia runs the media processor over videos and reports whether any
// of them was postponed.
func (r *run) processMedia(ctx context.Context, state *dirState, videos []string, method Method) (bool, error) {
	postponed := false
	for _, video := range videos {
		filePath := filepath.Join(state.path, video)

		if !r.req.Force {
			done, err := r.deps.History.AlreadyProcessed(ctx, video)
			if err != nil {
				return postponed, unexpected("history", err)
			}
			if done {
				r.report.debug(ctx, fmt.Sprintf("Skipping already processed file: %s", video))
				continue
			}
		}

		if r.settings.PostponeIfNoSubs {
			proceed, err := r.subtitleGate(ctx, state.path, video)
			if err != nil {
				return postponed, err
			}
			if !proceed {
				postponed = true
				continue
			}
		}

		outcome, err := r.deps.Media.Process(ctx, MediaRequest{
			Path:         filePath,
			ResourceName: r.resourceName,
			Method:       method,
			Priority:     r.req.Priority,
		})
		message := ""
		switch {
		case err == nil:
			r.report.Result = outcome.Success
			r.report.append(outcome.Output...)
		case errors.Is(err, ErrProcessingFailed):
			r.report.Result = false
			message = failureReason(err)
		default:
			return postponed, unexpected("media", err)
		}

		if r.report.Result {
			r.report.info(ctx, fmt.Sprintf("Processing succeeded for %s", filePath))
			continue
		}
		r.report.warn(ctx, fmt.Sprintf("Processing failed for %s: %s", filePath, message),
			logging.String(logging.FieldEventType, "processing_failed"),
			logging.String(logging.FieldErrorHint, "inspect the media processor output above"),
		)
		r.report.miss(fmt.Sprintf("%s: Processing failed: %s", filePath, message))
		r.report.Succeeded = false
	}
	return postponed, nil
}

// subtitleGate reports whether video may be processed now. It returns false
// when subtitles are wanted for the show but none are embedded or sitting
// next to the file yet.
func (r *run) subtitleGate(ctx context.Context, dir, video string) (bool, error) {
	filePath := filepath.Join(dir, video)
	if r.req.IgnoreSubs {
		r.report.info(ctx, fmt.Sprintf("Subtitles check was disabled for this episode in manual post-processing. "+
			"Continuing the post-processing of this file: %s", video))
		return true, nil
	}

	enabled := false
	if r.deps.Shows != nil {
		var err error
		if enabled, err = r.deps.Shows.SubtitlesEnabled(ctx, filePath, r.resourceName); err != nil {
			return false, unexpected("shows", err)
		}
	}
	if !enabled || r.deps.Subtitles == nil {
		r.report.info(ctx, fmt.Sprintf("Subtitles disabled for this show. "+
			"Continuing the post-processing of this file: %s", video))
		return true, nil
	}

	embedded := language.NewSet()
	if !r.settings.IgnoreEmbedded {
		var err error
		if embedded, err = r.deps.Subtitles.EmbeddedLanguages(ctx, filePath); err != nil {
			return false, unexpected("subtitles", err)
		}
	}

	switch {
	case r.settings.AcceptUnknownEmbedded && embedded.HasUndetermined():
		r.report.info(ctx, fmt.Sprintf("Found embedded unknown subtitles and we don't want to ignore them. "+
			"Continuing the post-processing of this file: %s", video))
		return true, nil
	case r.wanted.Intersects(embedded):
		r.report.info(ctx, fmt.Sprintf("Found wanted embedded subtitles. "+
			"Continuing the post-processing of this file: %s", video))
		return true, nil
	}

	associated, err := r.deps.Subtitles.AssociatedSubtitles(dir, video)
	if err != nil {
		return false, unexpected("subtitles", err)
	}
	if len(associated) == 0 {
		r.report.log(ctx, slog.LevelInfo, fmt.Sprintf("No subtitles associated. "+
			"Postponing the post-processing of this file: %s", video),
			logging.String(logging.FieldEventType, "postponed"),
		)
		return false, nil
	}
	r.report.info(ctx, fmt.Sprintf("Found associated subtitles. "+
		"Continuing the post-processing of this file: %s", video))
	return true, nil
}

func uniqueSorted(items []string) []string {
	out := slices.Clone(items)
	slices.Sort(out)
	return slices.Compact(out)
}
