package postprocess

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"postflow/internal/logging"
	"postflow/internal/mediafile"
)

// prepareFiles classifies the files of dir, unpacks archives, and merges
// their content into the listing.
func (r *run) prepareFiles(ctx context.Context, dir string, files []string) (*dirState, error) {
	listing := r.classifier.Classify(files)
	state := &dirState{
		path:   dir,
		files:  append([]string(nil), files...),
		videos: listing.Videos,
	}

	if len(listing.Archives) > 0 && r.settings.Unpack && r.deps.Extractor != nil {
		content, err := r.unpack(ctx, dir, listing.Archives)
		if err != nil {
			return nil, err
		}
		state.rarContent = content
		state.files = append(state.files, content...)
		state.videoInRar = mediafile.Videos(content)
		state.videos = append(state.videos, state.videoInRar...)
	}

	r.report.debug(ctx, fmt.Sprintf("Post-processing files: %s", formatList(state.files)))
	r.report.debug(ctx, fmt.Sprintf("Post-processing video files: %s", formatList(state.videos)))
	if len(state.rarContent) > 0 {
		r.report.debug(ctx, fmt.Sprintf("Post-processing rar content: %s", formatList(state.rarContent)))
		r.report.debug(ctx, fmt.Sprintf("Post-processing video in rar: %s", formatList(state.videoInRar)))
	}

	for _, name := range state.files {
		if slices.Contains(state.videos, name) || r.classifier.Allowed(name) {
			continue
		}
		if !slices.Contains(state.unwanted, name) {
			state.unwanted = append(state.unwanted, name)
		}
	}
	if len(state.unwanted) > 0 {
		r.report.debug(ctx, fmt.Sprintf("Found unwanted files: %s", formatList(state.unwanted)))
	}
	return state, nil
}

// unpack extracts archives and returns the base names of their content.
// Failed archives are recorded as missed and flip the discrete result.
func (r *run) unpack(ctx context.Context, dir string, archives []string) ([]string, error) {
	r.report.debug(ctx, fmt.Sprintf("Packed files detected: %s", formatList(archives)))

	var lookupErr error
	skip := func(entry string) bool {
		if lookupErr != nil {
			return true
		}
		if !r.req.Force {
			done, err := r.deps.History.AlreadyProcessed(ctx, entry)
			if err != nil {
				lookupErr = err
				return true
			}
			if done {
				r.report.debug(ctx, fmt.Sprintf("Archive file already post-processed, extraction skipped: %s", entry))
				return true
			}
		}
		if r.settings.PostponeIfNoSubs && isRegularFile(filepath.Join(dir, entry)) {
			r.report.debug(ctx, fmt.Sprintf("Archive file already extracted, extraction skipped: %s", entry))
			return true
		}
		return false
	}

	var content []string
	for _, outcome := range r.deps.Extractor.Extract(ctx, dir, archives, skip) {
		if lookupErr != nil {
			return nil, unexpected("history", lookupErr)
		}
		if outcome.Failed() {
			r.report.warn(ctx, fmt.Sprintf("Failed unpacking archive %s: %s", outcome.Archive, outcome.Failure.Detail()),
				logging.String("failure_kind", outcome.Failure.Kind.String()),
			)
			r.report.miss(fmt.Sprintf("%s: Unpacking failed: %s", outcome.Archive, outcome.Failure.Message()))
			r.report.Result = false
			r.report.Succeeded = false
			continue
		}
		content = append(content, outcome.Produced...)
	}
	if lookupErr != nil {
		return nil, unexpected("history", lookupErr)
	}

	r.report.debug(ctx, fmt.Sprintf("Extracted content: %s", formatList(content)))
	return content, nil
}

func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
