package postprocess

import (
	"context"
	"errors"
	"fmt"

	"postflow/internal/archive"
	"postflow/internal/history"
	"postflow/internal/language"
)

// Failure signals. Collaborators wrap these to report an expected failure
// that the pipeline records instead of aborting the run.
var (
	ErrProcessingFailed       = errors.New("episode post-processing failed")
	ErrFailedProcessingFailed = errors.New("failed download processing failed")
)

// FailureError carries a human-readable reason for a failure signal.
type FailureError struct {
	Signal error
	Reason string
}

func (e *FailureError) Error() string {
	if e.Reason == "" {
		return e.Signal.Error()
	}
	return fmt.Sprintf("%s: %s", e.Signal, e.Reason)
}

func (e *FailureError) Unwrap() error {
	return e.Signal
}

// ProcessingFailed builds an ErrProcessingFailed signal.
func ProcessingFailed(format string, args ...any) error {
	return &FailureError{Signal: ErrProcessingFailed, Reason: fmt.Sprintf(format, args...)}
}

// FailedProcessingFailed builds an ErrFailedProcessingFailed signal.
func FailedProcessingFailed(format string, args ...any) error {
	return &FailureError{Signal: ErrFailedProcessingFailed, Reason: fmt.Sprintf(format, args...)}
}

func failureReason(err error) string {
	var failure *FailureError
	if errors.As(err, &failure) && failure.Reason != "" {
		return failure.Reason
	}
	return err.Error()
}

// Outcome is a collaborator's verdict plus the text it produced.
type Outcome struct {
	Success bool
	Output  []string
}

// MediaRequest asks the media processor to handle one video file.
type MediaRequest struct {
	Path         string
	ResourceName string
	Method       Method
	Priority     bool
}

// MediaProcessor identifies and places a single video file.
type MediaProcessor interface {
	Process(ctx context.Context, req MediaRequest) (Outcome, error)
}

// FailedProcessor handles a download that did not complete correctly.
type FailedProcessor interface {
	ProcessFailed(ctx context.Context, dir, resourceName string) (Outcome, error)
}

// History answers whether a file was already post-processed.
type History interface {
	AlreadyProcessed(ctx context.Context, name string) (bool, error)
}

// SubtitleInspector reports the subtitles available for a video.
type SubtitleInspector interface {
	EmbeddedLanguages(ctx context.Context, path string) (language.Set, error)
	AssociatedSubtitles(dir, file string) ([]string, error)
}

// ShowSubtitles reports whether subtitle handling is enabled for the show a
// file belongs to.
type ShowSubtitles interface {
	SubtitlesEnabled(ctx context.Context, path, resourceName string) (bool, error)
}

// Relocator moves a finished torrent to seed storage. Clients without that
// capability return an error matching services.ErrUnsupported.
type Relocator interface {
	Relocate(ctx context.Context, infoHash string) (bool, error)
}

// SeedTracker lists and forgets torrents awaiting relocation.
type SeedTracker interface {
	TrackedSeeds(ctx context.Context) ([]history.Seed, error)
	UntrackSeed(ctx context.Context, infoHash string) error
}

// Extractor unpacks archives in a directory.
type Extractor interface {
	Extract(ctx context.Context, dir string, archives []string, skip archive.SkipFunc) []archive.Outcome
}
