package postprocess

import (
	"fmt"
	"strings"

	"postflow/internal/config"
	"postflow/internal/services"
)

// Method is the file-handling strategy used to place a source file.
type Method string

const (
	MethodCopy     Method = config.MethodCopy
	MethodMove     Method = config.MethodMove
	MethodHardlink Method = config.MethodHardlink
	MethodSymlink  Method = config.MethodSymlink
)

// ParseMethod validates a textual strategy.
func ParseMethod(value string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(value))); m {
	case MethodCopy, MethodMove, MethodHardlink, MethodSymlink:
		return m, nil
	default:
		return "", services.Wrap(services.ErrValidation, "postprocess", "method", fmt.Sprintf("unsupported value %q", value), nil)
	}
}

// IsLink reports whether the strategy links rather than copies or moves.
func (m Method) IsLink() bool {
	return m == MethodHardlink || m == MethodSymlink
}

// ProcType distinguishes scheduled runs from operator-initiated ones.
type ProcType string

const (
	ProcAuto   ProcType = "auto"
	ProcManual ProcType = "manual"
)

// ParseProcType validates a processing type. Empty input means auto.
func ParseProcType(value string) (ProcType, error) {
	switch t := ProcType(strings.ToLower(strings.TrimSpace(value))); t {
	case "":
		return ProcAuto, nil
	case ProcAuto, ProcManual:
		return t, nil
	default:
		return "", services.Wrap(services.ErrValidation, "postprocess", "type", fmt.Sprintf("unsupported value %q", value), nil)
	}
}

// Settings is the immutable policy a pipeline runs with.
type Settings struct {
	DownloadDir           string
	Method                Method
	Unpack                bool
	DeleteRarContents     bool
	NoDelete              bool
	PostponeIfSyncFiles   bool
	PostponeIfNoSubs      bool
	AllowedExtensions     []string
	SyncExtensions        []string
	WantedLanguages       []string
	AcceptUnknownEmbedded bool
	IgnoreEmbedded        bool
	FailedDownloads       bool
	DeleteFailed          bool
	SeedRelocation        bool
}

// SettingsFromConfig snapshots the processing policy from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		DownloadDir:           cfg.Paths.DownloadDir,
		Method:                Method(cfg.Processing.Method),
		Unpack:                cfg.Processing.Unpack,
		DeleteRarContents:     cfg.Processing.DeleteRarContents,
		NoDelete:              cfg.Processing.NoDelete,
		PostponeIfSyncFiles:   cfg.Processing.PostponeIfSyncFiles,
		PostponeIfNoSubs:      cfg.Processing.PostponeIfNoSubs,
		AllowedExtensions:     append([]string(nil), cfg.Processing.AllowedExtensions...),
		SyncExtensions:        append([]string(nil), cfg.Processing.SyncExtensions...),
		WantedLanguages:       append([]string(nil), cfg.Subtitles.Languages...),
		AcceptUnknownEmbedded: cfg.Subtitles.AcceptUnknownEmbedded,
		IgnoreEmbedded:        cfg.Subtitles.IgnoreEmbedded,
		FailedDownloads:       cfg.FailedDownloads.Enabled,
		DeleteFailed:          cfg.FailedDownloads.DeleteFailed,
		SeedRelocation:        cfg.SeedRelocationEnabled(),
	}
}

// Request describes one invocation of the pipeline.
type Request struct {
	// Path is the directory to process.
	Path string
	// ResourceName optionally names the single file or folder the caller
	// wants processed directly.
	ResourceName string
	Force        bool
	Priority     bool
	Delete       bool
	// Failed asserts the download failed.
	Failed     bool
	Type       ProcType
	IgnoreSubs bool
	// Method overrides Settings.Method when set.
	Method Method
}
