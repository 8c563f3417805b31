package postprocess

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"postflow/internal/fileutil"
	"postflow/internal/logging"
)

// cleanUp removes leftovers after processing. It only runs for the move
// strategy or when deletion was requested in a manual run. The directory
// itself is kept when anything in it was postponed, so the next run finds
// the waiting video.
func (r *run) cleanUp(ctx context.Context, state *dirState) {
	cleanFolder := r.req.Type == ProcManual && r.req.Delete
	if r.method != MethodMove && !cleanFolder {
		return
	}

	for _, folder := range IgnoredFolders {
		r.deleteFolder(ctx, filepath.Join(state.path, folder), false)
	}

	if len(state.unwanted) > 0 {
		r.deleteFiles(ctx, state.path, state.unwanted, cleanFolder)
	}

	if r.settings.NoDelete && !cleanFolder {
		return
	}
	if r.method != MethodMove && r.method != MethodCopy {
		return
	}
	if r.isDownloadDir(state.path) {
		return
	}
	if state.postponed {
		r.report.debug(ctx, fmt.Sprintf("Keeping folder with postponed files: %s", state.path))
		return
	}
	if r.deleteFolder(ctx, state.path, r.method != MethodCopy) {
		r.report.debug(ctx, fmt.Sprintf("Deleted folder: %s", state.path))
	}
}

// deleteFiles removes files from dir. Nothing is removed after a failed
// discrete result unless force is set. Delete failures are logged only.
func (r *run) deleteFiles(ctx context.Context, dir string, files []string, force bool) {
	if len(files) == 0 {
		return
	}
	if !r.report.Result {
		if !force {
			return
		}
		r.report.debug(ctx, "Forcing deletion of files, even though last result was not successful.")
	}

	for _, name := range files {
		path := filepath.Join(dir, name)
		if !isRegularFile(path) {
			continue
		}
		r.report.debug(ctx, fmt.Sprintf("Deleting file: %s", name))

		if info, err := os.Stat(path); err == nil && info.Mode().Perm()&0o200 == 0 {
			r.report.debug(ctx, fmt.Sprintf("Changing read-only flag for file: %s", name))
			if err := fileutil.MakeWritable(path); err != nil {
				r.report.debug(ctx, fmt.Sprintf("Cannot change permissions of %s: %v", path, err))
			}
		}
		if err := os.Remove(path); err != nil {
			r.report.debug(ctx, fmt.Sprintf("Unable to delete file %s: %v", name, err),
				logging.String(logging.FieldImpact, "file left in download folder"),
			)
		}
	}
}

// deleteFolder removes folder, refusing non-directories and the download
// root. With checkEmpty only an empty folder is removed; otherwise the whole
// tree goes.
func (r *run) deleteFolder(ctx context.Context, folder string, checkEmpty bool) bool {
	if !fileutil.IsDir(folder) {
		return false
	}
	if r.isDownloadDir(folder) {
		return false
	}
	if r.holdsPostponed(folder) {
		r.report.debug(ctx, fmt.Sprintf("Keeping folder with postponed files: %s", folder))
		return false
	}

	logger := r.report.logger
	if checkEmpty {
		entries, err := os.ReadDir(folder)
		if err == nil && len(entries) > 0 {
			names := make([]string, 0, len(entries))
			for _, entry := range entries {
				names = append(names, entry.Name())
			}
			logger.InfoContext(ctx, fmt.Sprintf("Not deleting folder %s found the following files: %s", folder, formatList(names)))
			return false
		}
		logger.InfoContext(ctx, fmt.Sprintf("Deleting folder (if it's empty): %s", folder))
		if err := os.Remove(folder); err != nil {
			logging.WarnWithContext(logger, fmt.Sprintf("Unable to delete folder: %s: %v", folder, err), "cleanup_failed",
				logging.String(logging.FieldErrorHint, "check folder permissions"),
				logging.String(logging.FieldImpact, "folder left in place"),
			)
			return false
		}
		return true
	}

	logger.InfoContext(ctx, fmt.Sprintf("Deleting folder: %s", folder))
	if err := os.RemoveAll(folder); err != nil {
		logging.WarnWithContext(logger, fmt.Sprintf("Unable to delete folder: %s: %v", folder, err), "cleanup_failed",
			logging.String(logging.FieldErrorHint, "check folder permissions"),
			logging.String(logging.FieldImpact, "folder left in place"),
		)
		return false
	}
	return true
}

// holdsPostponed reports whether folder is, or contains, a directory with a
// postponed video.
func (r *run) holdsPostponed(folder string) bool {
	for _, dir := range r.postponedDirs {
		rel, err := filepath.Rel(folder, dir)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

func (r *run) isDownloadDir(path string) bool {
	return r.settings.DownloadDir != "" && fileutil.SamePath(path, r.settings.DownloadDir)
}
