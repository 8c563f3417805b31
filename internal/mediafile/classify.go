package mediafile

import "strings"

// Classifier partitions listings using the configured allowed extensions.
type Classifier struct {
	allowed        map[string]struct{}
	syncExtensions []string
}

// NewClassifier builds a classifier. Allowed extensions are matched without a
// leading dot and case-insensitively; sync extensions are matched exactly.
func NewClassifier(allowedExtensions, syncExtensions []string) Classifier {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return Classifier{allowed: allowed, syncExtensions: append([]string(nil), syncExtensions...)}
}

// Listing is a classified set of file names from one directory.
type Listing struct {
	Videos   []string
	Archives []string
	Unwanted []string
}

// Classify partitions names. A file may appear in more than one set: archives
// that are not explicitly allowed are also unwanted.
func (c Classifier) Classify(names []string) Listing {
	var listing Listing
	for _, name := range names {
		video := IsVideo(name)
		if video {
			listing.Videos = append(listing.Videos, name)
		}
		if IsArchive(name) {
			listing.Archives = append(listing.Archives, name)
		}
		if !video && !c.Allowed(name) {
			listing.Unwanted = append(listing.Unwanted, name)
		}
	}
	return listing
}

// Allowed reports whether the extension of name is configured to be kept.
func (c Classifier) Allowed(name string) bool {
	_, ok := c.allowed[Extension(name)]
	return ok
}

// HasSyncFiles reports whether any name marks an in-flight transfer.
func (c Classifier) HasSyncFiles(names []string) bool {
	for _, name := range names {
		if IsSync(name, c.syncExtensions) {
			return true
		}
	}
	return false
}

// Videos filters names down to video files.
func Videos(names []string) []string {
	var out []string
	for _, name := range names {
		if IsVideo(name) {
			out = append(out, name)
		}
	}
	return out
}
