package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"

	"postflow/internal/logging"
	"postflow/internal/mediafile"
)

// SkipFunc reports whether an entry, given by base name, means the archive has
// already been handled. The first entry that matches skips extraction.
type SkipFunc func(entry string) bool

// Outcome is the result of unpacking one archive.
type Outcome struct {
	Archive string
	// Produced lists the base names of every file entry, whether freshly
	// extracted or already present.
	Produced []string
	Skipped  bool
	Failure  *Failure
}

// Failed reports whether the archive could not be unpacked.
func (o Outcome) Failed() bool {
	return o.Failure != nil
}

// Extractor unpacks archives into their containing directory.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor constructs an extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logging.NewComponentLogger(logger, "archive")}
}

// Extract unpacks each archive in dir in order. Failures are recorded per
// archive and never stop the remaining archives. Cancellation is honored
// between archives.
func (e *Extractor) Extract(ctx context.Context, dir string, archives []string, skip SkipFunc) []Outcome {
	outcomes := make([]Outcome, 0, len(archives))
	for _, name := range archives {
		if ctx.Err() != nil {
			failure := Failure{Kind: Unknown, Reason: ctx.Err().Error()}
			outcomes = append(outcomes, Outcome{Archive: name, Failure: &failure})
			continue
		}
		outcome := e.extractOne(filepath.Join(dir, name), dir, skip)
		outcome.Archive = name
		if outcome.Failure != nil {
			logging.WarnWithContext(e.logger, "archive unpack failed", "archive_failed",
				logging.String("archive", name),
				logging.String("failure_kind", outcome.Failure.Kind.String()),
				logging.String("reason", outcome.Failure.Detail()),
				logging.String(logging.FieldErrorHint, "re-download the release or extract it manually"),
				logging.String(logging.FieldImpact, "archive content skipped"),
			)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (e *Extractor) extractOne(archivePath, dir string, skip SkipFunc) Outcome {
	format, err := formatFor(archivePath)
	if err != nil {
		failure := Classify(err)
		return Outcome{Failure: &failure}
	}

	entries, err := format.list(archivePath)
	if err != nil {
		failure := Classify(err)
		return Outcome{Failure: &failure}
	}

	produced := make([]string, 0, len(entries))
	skipped := false
	for _, entry := range entries {
		base := path.Base(entry)
		if !skipped && skip != nil && skip(base) {
			e.logger.Debug("archive content already handled, extraction skipped",
				logging.String("archive", filepath.Base(archivePath)),
				logging.String("entry", base),
			)
			skipped = true
		}
		produced = append(produced, base)
	}

	if !skipped {
		if err := format.extract(archivePath, dir); err != nil {
			failure := Classify(err)
			return Outcome{Failure: &failure}
		}
		e.logger.Debug("archive unpacked",
			logging.String("archive", filepath.Base(archivePath)),
			logging.Int("entries", len(produced)),
		)
	}
	return Outcome{Produced: produced, Skipped: skipped}
}

type format interface {
	// list returns file entry names with forward slashes, directories omitted.
	list(archivePath string) ([]string, error)
	extract(archivePath, dir string) error
}

func formatFor(archivePath string) (format, error) {
	switch {
	case mediafile.IsRar(archivePath):
		return rarFormat{}, nil
	case mediafile.IsZip(archivePath):
		return zipFormat{}, nil
	default:
		return nil, fmt.Errorf("%s: not a valid archive", filepath.Base(archivePath))
	}
}

type rarFormat struct{}

func (rarFormat) list(archivePath string) ([]string, error) {
	rc, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var names []string
	for {
		header, err := rc.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		if header.IsDir {
			continue
		}
		names = append(names, normalizeEntry(header.Name))
	}
}

func (rarFormat) extract(archivePath, dir string) error {
	rc, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer rc.Close()

	for {
		header, err := rc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if header.IsDir {
			continue
		}
		if err := writeEntry(dir, header.Name, header.Mode(), rc); err != nil {
			return err
		}
	}
}

type zipFormat struct{}

func (zipFormat) list(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, normalizeEntry(f.Name))
	}
	return names, nil
}

func (zipFormat) extract(archivePath, dir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractZipEntry(dir, f); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(dir string, f *zip.File) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	return writeEntry(dir, f.Name, f.Mode(), src)
}

// writeEntry flattens name into dir. Existing files are left untouched.
func writeEntry(dir, name string, mode fs.FileMode, src io.Reader) error {
	base := path.Base(normalizeEntry(name))
	if base == "." || base == "/" || base == "" {
		return nil
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	dest := filepath.Join(dir, base)
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm|0o200)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	return out.Close()
}

func normalizeEntry(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}
