package library

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"postflow/internal/history"
	"postflow/internal/logging"
	"postflow/internal/postprocess"
)

// FailedHandler records failed downloads so they show up in history.
type FailedHandler struct {
	store  Store
	logger *slog.Logger
}

// NewFailedHandler constructs a failed-download processor.
func NewFailedHandler(store Store, logger *slog.Logger) *FailedHandler {
	return &FailedHandler{store: store, logger: logging.NewComponentLogger(logger, "failed")}
}

// ProcessFailed records a failed row for resourceName, or the directory name
// when no resource was given.
func (f *FailedHandler) ProcessFailed(ctx context.Context, dir, resourceName string) (postprocess.Outcome, error) {
	logger := logging.WithContext(ctx, f.logger)
	resource := strings.TrimSpace(resourceName)
	if resource == "" {
		resource = filepath.Base(dir)
	}
	for _, marker := range []string{"_FAILED_", "_UNDERSIZED_"} {
		resource = strings.TrimPrefix(resource, marker)
	}
	if resource == "" || resource == "." {
		return postprocess.Outcome{}, postprocess.FailedProcessingFailed("unable to name failed download in %s", dir)
	}

	entry := history.Entry{Action: history.ActionFailed, Resource: resource}
	if info, ok := parseEpisode(resource); ok {
		entry.Show = info.Show
	}
	if hash, err := f.store.SnatchedHash(ctx, resource); err == nil {
		entry.InfoHash = hash
	}
	if _, err := f.store.Record(ctx, entry); err != nil {
		return postprocess.Outcome{}, postprocess.FailedProcessingFailed("recording %s: %v", resource, err)
	}

	logger.Info("failed download recorded",
		logging.String("resource", resource),
		logging.Path(dir),
	)
	return postprocess.Outcome{Success: true, Output: []string{fmt.Sprintf("Marked %s as failed", resource)}}, nil
}
