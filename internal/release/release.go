// Package release parses scene-style release names into show, season, and
// episode fields.
package release

import (
	"path/filepath"
	"strings"

	"github.com/moistari/rls"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"postflow/internal/mediafile"
)

// Info is the subset of a parsed release the pipeline needs.
type Info struct {
	Show    string
	Season  int
	Episode int
	Year    int
	Group   string
}

// Episodic reports whether the release names a season.
func (i Info) Episodic() bool {
	return i.Season > 0
}

var titleCaser = cases.Title(language.English)

// Parse extracts release fields from a file or folder name. Known media and
// archive extensions are stripped first. ok is false when no show title could
// be found.
func Parse(name string) (Info, bool) {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return Info{}, false
	}
	if mediafile.IsVideo(name) || mediafile.IsSubtitle(name) || mediafile.IsArchive(name) || mediafile.IsNZB(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	parsed := rls.ParseString(name)
	show := strings.TrimSpace(parsed.Title)
	if show == "" {
		return Info{}, false
	}
	return Info{
		Show:    show,
		Season:  parsed.Series,
		Episode: parsed.Episode,
		Year:    parsed.Year,
		Group:   parsed.Group,
	}, true
}

// FolderName renders a show title as a library folder name.
func FolderName(show string) string {
	show = strings.Join(strings.Fields(show), " ")
	show = titleCaser.String(show)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, show)
}
