package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the ISO 639-2 code for an unknown language.
const Undetermined = "und"

type entry struct {
	code2   string
	code3   string
	alt3    string // bibliographic variant, e.g. "fre"
	display string
	words   []string
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish", "espanol"}},
	{"fr", "fra", "fre", "French", []string{"french", "francais"}},
	{"de", "deu", "ger", "German", []string{"german", "deutsch"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"el", "ell", "gre", "Greek", []string{"greek"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"ro", "ron", "rum", "Romanian", []string{"romanian"}},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func clean(code string) string {
	code = strings.ReplaceAll(code, "\u0000", "")
	return strings.ToLower(strings.TrimSpace(code))
}

func lookup(code string) *entry {
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// parseBase resolves codes missing from the table, including IETF tags such
// as "pt-BR".
func parseBase(code string) (xlang.Base, bool) {
	if base, err := xlang.ParseBase(code); err == nil {
		return base, true
	}
	tag, err := xlang.Parse(code)
	if err != nil {
		return xlang.Base{}, false
	}
	base, conf := tag.Base()
	if conf == xlang.No {
		return xlang.Base{}, false
	}
	return base, true
}

// Normalize folds any recognized code, tag, or word to an ISO 639-2/T code.
// Empty and unrecognized input yields Undetermined.
func Normalize(code string) string {
	code = clean(code)
	if code == "" || code == Undetermined {
		return Undetermined
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if base, ok := parseBase(code); ok {
		if iso3 := base.ISO3(); iso3 != "" && iso3 != Undetermined {
			return iso3
		}
	}
	return Undetermined
}

// ToISO2 converts a recognized code to ISO 639-1, or returns "" when the
// language has no two-letter form.
func ToISO2(code string) string {
	code = clean(code)
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if base, ok := parseBase(code); ok {
		if s := base.String(); len(s) == 2 {
			return s
		}
	}
	return ""
}

// DisplayName returns an English name for the language, or the uppercased
// input when it is not recognized.
func DisplayName(code string) string {
	code = clean(code)
	if code == "" || code == Undetermined {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	if base, ok := parseBase(code); ok {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// ExtractFromTags extracts the language from stream metadata tags.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"} {
		if value, ok := tags[key]; ok {
			if value = clean(value); value != "" {
				return value
			}
		}
	}
	return ""
}

// Set is a collection of normalized language codes.
type Set map[string]struct{}

// NewSet normalizes and collects codes. Undetermined entries are kept so
// callers can decide whether unknown languages count.
func NewSet(codes ...string) Set {
	set := make(Set, len(codes))
	for _, code := range codes {
		set.Add(code)
	}
	return set
}

// Add inserts the normalized form of code.
func (s Set) Add(code string) {
	s[Normalize(code)] = struct{}{}
}

// Has reports whether the normalized form of code is present.
func (s Set) Has(code string) bool {
	_, ok := s[Normalize(code)]
	return ok
}

// HasUndetermined reports whether an unknown language was recorded.
func (s Set) HasUndetermined() bool {
	_, ok := s[Undetermined]
	return ok
}

// Intersects reports whether any code in other is present in s, ignoring
// undetermined entries.
func (s Set) Intersects(other Set) bool {
	for code := range other {
		if code == Undetermined {
			continue
		}
		if _, ok := s[code]; ok {
			return true
		}
	}
	return false
}
