package postprocess

import (
	"os"
	"path/filepath"

	"postflow/internal/mediafile"
)

// listSubdirs returns the immediate subdirectories of dir in name order.
func listSubdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	return dirs
}

// readDir splits the entries of dir into file and subdirectory names.
// Unreadable directories look empty.
func readDir(dir string) (files, subdirs []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
			continue
		}
		files = append(files, entry.Name())
	}
	return files, subdirs
}

// walkFiles yields each directory with its file names. An explicit resource
// naming an existing non-NZB file in path yields just that file. The root is
// listed top-level only; any other path is walked bottom-up so nested
// directories are handled, and possibly removed, before their parents.
func (r *run) walkFiles(path string, fn func(dir string, files []string) error) error {
	if r.resourceName != "" && !mediafile.IsNZB(r.resourceName) {
		if info, err := os.Stat(filepath.Join(path, r.resourceName)); err == nil && info.Mode().IsRegular() {
			return fn(path, []string{r.resourceName})
		}
	}

	if path == r.root {
		files, _ := readDir(path)
		if len(files) == 0 {
			return nil
		}
		return fn(path, files)
	}
	return walkBottomUp(path, fn)
}

func walkBottomUp(dir string, fn func(dir string, files []string) error) error {
	_, subdirs := readDir(dir)
	for _, sub := range subdirs {
		if err := walkBottomUp(filepath.Join(dir, sub), fn); err != nil {
			return err
		}
	}
	files, _ := readDir(dir)
	if len(files) == 0 {
		return nil
	}
	return fn(dir, files)
}
