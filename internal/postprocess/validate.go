package postprocess

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"postflow/internal/fileutil"
	"postflow/internal/mediafile"
)

const (
	failedMarker     = "_FAILED_"
	undersizedMarker = "_UNDERSIZED_"
	unpackMarker     = "_unpack"
)

// shouldProcess decides whether path holds processable content. Invalid
// folders anywhere in the inspected levels reject the whole path.
func (r *run) shouldProcess(ctx context.Context, path string, failed bool) (bool, error) {
	valid, err := r.isValidFolder(ctx, path, failed)
	if err != nil || !valid {
		return false, err
	}

	folder := filepath.Base(path)
	if fileutil.IsHidden(path) || slices.Contains(IgnoredFolders, folder) {
		r.report.debug(ctx, fmt.Sprintf("Ignoring folder: %s", folder))
		r.report.miss(fmt.Sprintf("%s: Hidden or ignored folder", path))
		return false, nil
	}

	verdict, err := r.scanFolder(ctx, path, failed)
	if err != nil {
		return false, err
	}
	switch verdict {
	case scanFound:
		return true, nil
	case scanInvalid:
		return false, nil
	}

	r.report.debug(ctx, fmt.Sprintf("No processable items found in folder: %s", path))
	return false, nil
}

type scanVerdict int

const (
	scanNothing scanVerdict = iota
	scanFound
	scanInvalid
)

// scanFolder walks path top-down and stops at the first video or archive, or
// at the first invalid subfolder. Only the first level of the root is
// inspected since its subdirectories are candidates of their own.
func (r *run) scanFolder(ctx context.Context, path string, failed bool) (scanVerdict, error) {
	stack := []string{path}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		files, subdirs := readDir(dir)
		children := make([]string, 0, len(subdirs))
		for _, sub := range subdirs {
			subPath := filepath.Join(dir, sub)
			valid, err := r.isValidFolder(ctx, subPath, failed)
			if err != nil {
				return scanNothing, err
			}
			if !valid {
				return scanInvalid, nil
			}
			children = append(children, subPath)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
		for _, name := range files {
			if mediafile.IsVideo(name) || mediafile.IsArchive(name) {
				return scanFound, nil
			}
		}
		if path == r.root {
			break
		}
	}
	return scanNothing, nil
}

// isValidFolder rejects failed, undersized, and mid-unpack folders. Failed
// folders are routed to failed-download handling once per run.
func (r *run) isValidFolder(ctx context.Context, path string, failed bool) (bool, error) {
	folder := filepath.Base(path)

	switch {
	case strings.HasPrefix(folder, failedMarker):
		r.report.debug(ctx, "The directory name indicates it failed to extract.")
		failed = true
	case strings.HasPrefix(folder, undersizedMarker):
		r.report.debug(ctx, "The directory name indicates that it was previously rejected for being undersized.")
		failed = true
	}

	if failed {
		if _, seen := r.failedDirs[path]; seen {
			return false, nil
		}
		r.failedDirs[path] = struct{}{}
		if err := r.processFailed(ctx, path); err != nil {
			return false, err
		}
		r.report.miss(fmt.Sprintf("%s: Failed download", path))
		return false, nil
	}

	if strings.HasPrefix(folder, unpackMarker) {
		r.report.debug(ctx, "The directory name indicates that this release is in the process of being unpacked.")
		r.report.miss(fmt.Sprintf("%s: Being unpacked", path))
		return false, nil
	}
	return true, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
