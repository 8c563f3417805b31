package postprocess

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postflow/internal/logging"
	"postflow/internal/services"
)

// relocateSeeds asks the download client to move every tracked torrent to
// seed storage and forgets the ones that moved. Nothing here affects the run
// outcome.
func (r *run) relocateSeeds(ctx context.Context) {
	if !r.settings.SeedRelocation || r.deps.Torrents == nil || r.deps.Seeds == nil {
		return
	}
	logger := r.report.logger

	seeds, err := r.deps.Seeds.TrackedSeeds(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "listing tracked torrents failed", "seed_list_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "torrents stay in the download location until the next run"),
		)
		return
	}

	for _, seed := range seeds {
		plural, releases := "", "N/A"
		if len(seed.Releases) > 0 {
			releases = strings.Join(seed.Releases, ", ")
			if len(seed.Releases) > 1 {
				plural = "s"
			}
		}

		logger.DebugContext(ctx, "Trying to move torrent after post-processing", logging.String("info_hash", seed.InfoHash))
		moved, err := r.deps.Torrents.Relocate(ctx, seed.InfoHash)
		if errors.Is(err, services.ErrUnsupported) {
			logging.WarnWithContext(logger, "Your client doesn't support moving torrents to new location", "seed_unsupported",
				logging.String(logging.FieldErrorHint, services.Hint(err)),
			)
			return
		}
		if err != nil || !moved {
			attrs := []logging.Attr{logging.String("info_hash", seed.InfoHash)}
			if err != nil {
				attrs = append(attrs, logging.Error(err))
			}
			logging.WarnWithContext(logger,
				fmt.Sprintf("Couldn't move torrent for release%s '%s' with hash: %s. Please check logs.", plural, releases, seed.InfoHash),
				"seed_move_failed", attrs...)
			continue
		}

		logger.DebugContext(ctx, fmt.Sprintf("Moved torrent for release%s '%s' with hash: %s", plural, releases, seed.InfoHash))
		if err := r.deps.Seeds.UntrackSeed(ctx, seed.InfoHash); err != nil {
			logging.WarnWithContext(logger, "forgetting relocated torrent failed", "seed_untrack_failed",
				logging.String("info_hash", seed.InfoHash),
				logging.Error(err),
				logging.String(logging.FieldImpact, "relocation will be retried on the next run"),
			)
		}
	}
}
