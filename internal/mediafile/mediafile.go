package mediafile

import (
	"path"
	"regexp"
	"slices"
	"strings"
)

var videoExtensions = map[string]struct{}{
	"3gp": {}, "asf": {}, "avi": {}, "divx": {}, "flv": {}, "img": {}, "iso": {},
	"m2ts": {}, "m4v": {}, "mkv": {}, "mov": {}, "mp4": {}, "mpeg": {}, "mpg": {},
	"ogm": {}, "ogv": {}, "rmvb": {}, "tp": {}, "ts": {}, "vob": {}, "webm": {},
	"wmv": {}, "wtv": {},
}

var subtitleExtensions = map[string]struct{}{
	"ass": {}, "idx": {}, "smi": {}, "srt": {}, "ssa": {}, "sub": {}, "vtt": {},
}

var (
	samplePattern = regexp.MustCompile(`(?i)(^|[\W_])sample\d*[\W_]`)
	volumePattern = regexp.MustCompile(`(?i)\.part(\d+)\.rar$`)
)

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	ext := path.Ext(baseName(name))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsVideo reports whether name is a playable video, excluding samples and
// resource-fork files.
func IsVideo(name string) bool {
	base := baseName(name)
	if strings.HasPrefix(base, "._") {
		return false
	}
	if _, ok := videoExtensions[Extension(base)]; !ok {
		return false
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	return !samplePattern.MatchString(stem + ".")
}

// IsRar reports whether name is a single RAR archive or the first volume of a
// multi-part set.
func IsRar(name string) bool {
	base := baseName(name)
	if Extension(base) != "rar" {
		return false
	}
	if m := volumePattern.FindStringSubmatch(base); m != nil {
		return strings.TrimLeft(m[1], "0") == "1"
	}
	return true
}

// IsZip reports whether name is a ZIP archive.
func IsZip(name string) bool {
	return Extension(name) == "zip"
}

// IsArchive reports whether name is an archive the extractor opens.
func IsArchive(name string) bool {
	return IsRar(name) || IsZip(name)
}

// IsSubtitle reports whether name is a subtitle sidecar.
func IsSubtitle(name string) bool {
	_, ok := subtitleExtensions[Extension(name)]
	return ok
}

// IsSync reports whether name marks an in-flight transfer.
func IsSync(name string, syncExtensions []string) bool {
	base := baseName(name)
	if strings.HasPrefix(base, ".syncthing") {
		return true
	}
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" {
		return false
	}
	return slices.Contains(syncExtensions, ext)
}

// IsNZB reports whether name is a usenet job file.
func IsNZB(name string) bool {
	return Extension(name) == "nzb"
}

func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Base(name)
}
