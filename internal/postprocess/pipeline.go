package postprocess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"postflow/internal/language"
	"postflow/internal/logging"
	"postflow/internal/mediafile"
	"postflow/internal/services"
)

// IgnoredFolders are system folders that are never processed and are removed
// during cleanup.
var IgnoredFolders = []string{"@eaDir", "#recycle"}

// Dependencies are the collaborators a pipeline drives. Media and History
// are required; the rest are optional and disable the feature they back
// when nil.
type Dependencies struct {
	Media     MediaProcessor
	Failed    FailedProcessor
	History   History
	Extractor Extractor
	Subtitles SubtitleInspector
	Shows     ShowSubtitles
	Torrents  Relocator
	Seeds     SeedTracker
}

// Pipeline runs post-processing with fixed settings and collaborators.
type Pipeline struct {
	settings   Settings
	deps       Dependencies
	classifier mediafile.Classifier
	wanted     language.Set
	logger     *slog.Logger
}

// New builds a pipeline.
func New(settings Settings, deps Dependencies, logger *slog.Logger) (*Pipeline, error) {
	if deps.Media == nil {
		return nil, services.Wrap(services.ErrConfiguration, "postprocess", "init", "media processor is required", nil)
	}
	if deps.History == nil {
		return nil, services.Wrap(services.ErrConfiguration, "postprocess", "init", "history store is required", nil)
	}
	if settings.Method == "" {
		settings.Method = MethodCopy
	}
	if _, err := ParseMethod(string(settings.Method)); err != nil {
		return nil, err
	}
	return &Pipeline{
		settings:   settings,
		deps:       deps,
		classifier: mediafile.NewClassifier(settings.AllowedExtensions, settings.SyncExtensions),
		wanted:     language.NewSet(settings.WantedLanguages...),
		logger:     logging.NewComponentLogger(logger, "postprocess"),
	}, nil
}

// run holds the mutable state of one Process call.
type run struct {
	*Pipeline
	report        *Report
	root          string
	resourceName  string
	method        Method
	req           Request
	failedDirs    map[string]struct{}
	// postponedDirs lists directories holding a postponed video. No folder
	// at or above one of them may be removed during this run.
	postponedDirs []string
}

// dirState holds the classified files of the directory being processed.
type dirState struct {
	path       string
	files      []string
	videos     []string
	rarContent []string
	videoInRar []string
	unwanted   []string
	postponed  bool
}

// Process runs the pipeline for req and returns the report. A non-nil error
// means a collaborator failed in an unexpected way; the report then holds
// everything accumulated up to that point.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	procType, err := ParseProcType(string(req.Type))
	if err != nil {
		return nil, err
	}
	req.Type = procType

	method := p.settings.Method
	if req.Method != "" {
		if method, err = ParseMethod(string(req.Method)); err != nil {
			return nil, err
		}
	}

	logger := logging.WithContext(ctx, p.logger)
	r := &run{
		Pipeline:     p,
		report:       newReport(logger),
		resourceName: req.ResourceName,
		method:       method,
		req:          req,
		failedDirs:   map[string]struct{}{},
	}

	root, ok := ResolveDirectory(req.Path, p.settings.DownloadDir)
	if !ok {
		r.report.warn(ctx, "Unable to figure out what folder to process."+
			" If your download client and postflow aren't on the same machine,"+
			" make sure paths.download_dir is set in the config.",
			logging.Path(req.Path),
			logging.String(logging.FieldErrorHint, "check paths.download_dir"),
		)
		r.report.Succeeded = false
		r.report.Result = false
		return r.report, nil
	}
	r.root = root
	r.report.Directory = root
	r.report.debug(ctx, fmt.Sprintf("Processing path: %s", root))

	if p.settings.PostponeIfNoSubs {
		r.report.info(ctx, "Feature 'postpone post-processing if no subtitle available' is enabled.")
	}

	if err := r.processPaths(ctx); err != nil {
		return r.report, err
	}

	r.summarize(ctx)
	r.relocateSeeds(ctx)
	return r.report, nil
}

func (r *run) processPaths(ctx context.Context) error {
	if err := r.processPath(ctx, r.root); err != nil {
		return err
	}
	if r.resourceName != "" {
		return nil
	}
	// Subdirectories are listed after the root has been handled.
	for _, sub := range listSubdirs(r.root) {
		if err := r.processPath(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) processPath(ctx context.Context, path string) error {
	ok, err := r.shouldProcess(ctx, path, r.req.Failed)
	if err != nil || !ok {
		return err
	}
	r.report.Result = true

	return r.walkFiles(path, func(dir string, files []string) error {
		if r.settings.PostponeIfSyncFiles && r.classifier.HasSyncFiles(files) {
			r.report.info(ctx, fmt.Sprintf("Found temporary sync files in folder: %s", dir))
			r.report.info(ctx, fmt.Sprintf("Skipping post-processing for folder: %s", dir))
			r.report.miss(fmt.Sprintf("%s: Sync files found", dir))
			return nil
		}
		r.report.debug(ctx, fmt.Sprintf("Processing folder: %s", dir))

		state, err := r.prepareFiles(ctx, dir, files)
		if err != nil {
			return err
		}
		if err := r.processFiles(ctx, state); err != nil {
			return err
		}
		if state.postponed {
			r.postponedDirs = append(r.postponedDirs, state.path)
		}
		r.cleanUp(ctx, state)
		return nil
	})
}

func (r *run) summarize(ctx context.Context) {
	if r.report.Succeeded {
		r.report.info(ctx, "Successfully processed.")
		if len(r.report.Missed) > 0 {
			r.report.info(ctx, "I did encounter some unprocessable items: ")
			for _, missed := range r.report.Missed {
				r.report.info(ctx, missed)
			}
		}
		return
	}
	r.report.warn(ctx, "Problem(s) during processing, failed for the following files/folders: ")
	for _, missed := range r.report.Missed {
		r.report.warn(ctx, missed)
	}
}

func unexpected(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return services.Wrap(services.ErrExternalTool, "postprocess", op, "unexpected collaborator error", err)
}

// RelocateSeeds moves tracked torrents to seed storage outside of a
// processing run.
func (p *Pipeline) RelocateSeeds(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	r := &run{Pipeline: p, report: newReport(logging.WithContext(ctx, p.logger))}
	r.relocateSeeds(ctx)
}
