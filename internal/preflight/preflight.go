package preflight

import (
	"context"

	"postflow/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// TorrentPinger logs into the download client without changing anything.
type TorrentPinger interface {
	Ping(ctx context.Context) error
}

// RunAll executes all applicable preflight checks for the given config.
// pinger may be nil when the download client is disabled.
func RunAll(ctx context.Context, cfg *config.Config, pinger TorrentPinger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	if cfg.Paths.LibraryDir != "" {
		results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
	}
	if cfg.SeedRelocationEnabled() {
		results = append(results, CheckDirectoryAccess("Seed location", cfg.Torrent.SeedLocation))
	}

	for _, status := range CheckSystemDeps(cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		} else if status.Optional {
			result.Passed = true
			result.Detail += " (optional)"
		}
		results = append(results, result)
	}

	if cfg.Torrent.Enabled {
		results = append(results, CheckTorrent(ctx, pinger))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
