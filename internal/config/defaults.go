package config

// File-handling methods.
const (
	MethodCopy     = "copy"
	MethodMove     = "move"
	MethodHardlink = "hardlink"
	MethodSymlink  = "symlink"
)

const (
	defaultLibraryDir            = "~/library/tv"
	defaultStateDir              = "~/.local/share/postflow"
	defaultLogDir                = "~/.local/share/postflow/logs"
	defaultMethod                = MethodCopy
	defaultFFprobeBinary         = "ffprobe"
	defaultTorrentMethod         = "qbittorrent"
	defaultTorrentHost           = "http://127.0.0.1:8080"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultNotifyRequestTimeout  = 10
	defaultSubtitleLanguage      = "en"
	defaultAllowedExtensionsList = "srt,nfo,sub,idx,ass,ssa,vtt"
)

var defaultSyncExtensions = []string{"!sync", "lftp-pget-status", "part", "bts", "!qb", "!qB"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
		},
		Processing: Processing{
			Method:              defaultMethod,
			Unpack:              true,
			PostponeIfSyncFiles: true,
			AllowedExtensions:   splitList(defaultAllowedExtensionsList),
			SyncExtensions:      append([]string(nil), defaultSyncExtensions...),
		},
		Subtitles: Subtitles{
			Languages:     []string{defaultSubtitleLanguage},
			FFprobeBinary: defaultFFprobeBinary,
		},
		Torrent: Torrent{
			Method: defaultTorrentMethod,
			Host:   defaultTorrentHost,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RunSummary:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
