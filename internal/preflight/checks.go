package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"postflow/internal/config"
	"postflow/internal/deps"
)

const torrentCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries required by the configured features.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	var requirements []deps.Requirement
	if cfg.Processing.PostponeIfNoSubs && !cfg.Subtitles.IgnoreEmbedded {
		requirements = append(requirements, deps.Requirement{
			Name:        "FFprobe",
			Command:     deps.ResolveBinary(cfg.Subtitles.FFprobeBinary, "ffprobe"),
			Description: "Required to inspect embedded subtitle tracks",
		})
	}
	return deps.CheckBinaries(requirements)
}

// CheckTorrent verifies the download client accepts the configured credentials.
func CheckTorrent(ctx context.Context, pinger TorrentPinger) Result {
	const name = "qBittorrent"
	if pinger == nil {
		return Result{Name: name, Detail: "client not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, torrentCheckTimeout)
	defer cancel()
	if err := pinger.Ping(checkCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: "login timed out (client unreachable)"}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "Logged in"}
}
