package postprocess

import (
	"context"
	"errors"
	"fmt"

	"postflow/internal/logging"
)

// processFailed routes a failed download to the failed-download processor
// and, on success, optionally removes it.
func (r *run) processFailed(ctx context.Context, path string) error {
	if !r.settings.FailedDownloads || r.deps.Failed == nil {
		return nil
	}

	message := ""
	outcome, err := r.deps.Failed.ProcessFailed(ctx, path, r.resourceName)
	switch {
	case err == nil:
		r.report.Result = outcome.Success
		r.report.append(outcome.Output...)
	case errors.Is(err, ErrFailedProcessingFailed):
		r.report.Result = false
		message = failureReason(err)
	default:
		return unexpected("failed", err)
	}

	if r.settings.DeleteFailed && r.report.Result {
		if r.deleteFolder(ctx, path, false) {
			r.report.debug(ctx, fmt.Sprintf("Deleted folder: %s", path))
		}
	}

	if r.report.Result {
		r.report.info(ctx, fmt.Sprintf("Failed Download Processing succeeded: %s, %s", r.resourceName, path))
		return nil
	}
	r.report.warn(ctx, fmt.Sprintf("Failed Download Processing failed: %s, %s: %s", r.resourceName, path, message),
		logging.String(logging.FieldEventType, "failed_download_failed"),
	)
	r.report.Succeeded = false
	return nil
}
