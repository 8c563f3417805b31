package postprocess

import (
	"context"
	"log/slog"
	"strings"
)

// Report accumulates the textual output and outcome of a run.
type Report struct {
	// Directory is the resolved root, empty when resolution failed.
	Directory string
	// Missed explains every skipped or failed unit of work, keyed by path in
	// the text itself.
	Missed []string
	// Result is the outcome of the last discrete operation.
	Result bool
	// Succeeded is false once any processing, extraction, or failed-download
	// step reported failure.
	Succeeded bool

	lines  []string
	logger *slog.Logger
}

func newReport(logger *slog.Logger) *Report {
	return &Report{Result: true, Succeeded: true, logger: logger}
}

// Lines returns the report lines in order.
func (r *Report) Lines() []string {
	return append([]string(nil), r.lines...)
}

// String joins the report lines with newlines.
func (r *Report) String() string {
	return strings.Join(r.lines, "\n")
}

func (r *Report) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	r.lines = append(r.lines, msg)
	if r.logger != nil {
		r.logger.LogAttrs(ctx, level, msg, attrs...)
	}
}

func (r *Report) debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	r.log(ctx, slog.LevelDebug, msg, attrs...)
}

func (r *Report) info(ctx context.Context, msg string, attrs ...slog.Attr) {
	r.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (r *Report) warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	r.log(ctx, slog.LevelWarn, msg, attrs...)
}

// append records collaborator output without logging it again.
func (r *Report) append(lines ...string) {
	for _, line := range lines {
		if line = strings.TrimRight(line, "\n"); line != "" {
			r.lines = append(r.lines, line)
		}
	}
}

func (r *Report) miss(entry string) {
	r.Missed = append(r.Missed, entry)
}
