package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"postflow/internal/archive"
	"postflow/internal/config"
	"postflow/internal/history"
	"postflow/internal/library"
	"postflow/internal/logging"
	"postflow/internal/notifications"
	"postflow/internal/postprocess"
	"postflow/internal/services"
	"postflow/internal/subtitles"
	"postflow/internal/torrent"
)

// errRunFailed signals a completed run whose report did not succeed. The
// report already explains why.
var errRunFailed = errors.New("post-processing finished with problems")

const (
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

type processOptions struct {
	resource   string
	force      bool
	priority   bool
	deleteDir  bool
	failed     bool
	procType   string
	ignoreSubs bool
	method     string
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process [DIR]",
		Short: "Post-process a download folder (defaults to paths.download_dir)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.history()
			if err != nil {
				return err
			}

			req, err := opts.request(cfg, args)
			if err != nil {
				return err
			}
			return runProcess(cmd.Context(), cmd.OutOrStdout(), cfg, store, logger, req)
		},
	}

	cmd.Flags().StringVar(&opts.resource, "resource", "", "Single file or folder name inside DIR to process")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Reprocess files already recorded in history")
	cmd.Flags().BoolVar(&opts.priority, "priority", false, "Replace an existing library file for the same episode")
	cmd.Flags().BoolVar(&opts.deleteDir, "delete", false, "Delete leftovers after a manual run")
	cmd.Flags().BoolVar(&opts.failed, "failed", false, "Treat the download as failed")
	cmd.Flags().StringVar(&opts.procType, "type", "auto", "Processing type: auto or manual")
	cmd.Flags().BoolVar(&opts.ignoreSubs, "ignore-subs", false, "Skip the subtitle postponement check")
	cmd.Flags().StringVar(&opts.method, "method", "", "Override processing.method (copy, move, hardlink, symlink)")
	return cmd
}

func (o processOptions) request(cfg *config.Config, args []string) (postprocess.Request, error) {
	procType, err := postprocess.ParseProcType(o.procType)
	if err != nil {
		return postprocess.Request{}, err
	}
	req := postprocess.Request{
		Path:         cfg.Paths.DownloadDir,
		ResourceName: strings.TrimSpace(o.resource),
		Force:        o.force,
		Priority:     o.priority,
		Delete:       o.deleteDir,
		Failed:       o.failed,
		Type:         procType,
		IgnoreSubs:   o.ignoreSubs,
	}
	if len(args) == 1 {
		req.Path = args[0]
	}
	if strings.TrimSpace(req.Path) == "" {
		return postprocess.Request{}, services.Wrap(services.ErrConfiguration, "process", "resolve folder", "no folder given and paths.download_dir is not set", nil)
	}
	if o.method != "" {
		method, err := postprocess.ParseMethod(o.method)
		if err != nil {
			return postprocess.Request{}, err
		}
		req.Method = method
	}
	return req, nil
}

func runProcess(ctx context.Context, out io.Writer, cfg *config.Config, store *history.Store, logger *slog.Logger, req postprocess.Request) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return services.Wrap(services.ErrTransient, "process", "acquire run lock", fmt.Sprintf("another postflow run holds %s", cfg.LockPath()), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	ctx = services.WithRunID(ctx, uuid.NewString())
	ctx = services.WithStage(ctx, "process")
	runLogger := logging.WithContext(ctx, logger)
	notifier := notifications.NewService(cfg)

	pipeline, err := buildPipeline(cfg, store, logger)
	if err != nil {
		return err
	}

	runLogger.Info("post-processing started", logging.Path(req.Path))
	report, runErr := pipeline.Process(ctx, req)
	if report != nil {
		printReport(out, report)
	}
	if runErr != nil {
		logging.ErrorWithContext(runLogger, "post-processing aborted", "run_aborted",
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, services.Hint(runErr)),
		)
		publish(ctx, runLogger, notifier, notifications.EventError, notifications.Payload{"context": "process", "error": runErr})
		return runErr
	}

	payload := notifications.Payload{"directory": report.Directory, "missed": report.Missed}
	if report.Directory == "" {
		payload["directory"] = req.Path
	}
	if !report.Succeeded {
		publish(ctx, runLogger, notifier, notifications.EventRunFailed, payload)
		return errRunFailed
	}
	publish(ctx, runLogger, notifier, notifications.EventRunCompleted, payload)
	return nil
}

func buildPipeline(cfg *config.Config, store *history.Store, logger *slog.Logger) (*postprocess.Pipeline, error) {
	inspector := subtitles.NewInspector(cfg.Subtitles.FFprobeBinary, logger)
	deps := postprocess.Dependencies{
		Media:     library.NewPlacer(cfg.Paths.LibraryDir, store, inspector, logger),
		Failed:    library.NewFailedHandler(store, logger),
		History:   store,
		Extractor: archive.NewExtractor(logger),
		Subtitles: inspector,
		Shows:     subtitles.NewShowPolicy(store),
		Seeds:     store,
	}
	if cfg.SeedRelocationEnabled() {
		client, err := torrent.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		deps.Torrents = client
	}
	return postprocess.New(postprocess.SettingsFromConfig(cfg), deps, logger)
}

func publish(ctx context.Context, logger *slog.Logger, notifier notifications.Service, event notifications.Event, payload notifications.Payload) {
	if err := notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run outcome was not announced"),
		)
	}
}

func printReport(out io.Writer, report *postprocess.Report) {
	colorize := shouldColorize(out)
	for _, line := range report.Lines() {
		fmt.Fprintln(out, line)
	}
	status := "Result: succeeded"
	color := ansiGreen
	if !report.Succeeded {
		status = "Result: finished with problems"
		color = ansiYellow
	}
	if colorize {
		status = color + status + ansiReset
	}
	fmt.Fprintln(out, status)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
