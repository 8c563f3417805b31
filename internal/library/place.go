package library

import (
	"errors"
	"syscall"

	"postflow/internal/fileutil"
	"postflow/internal/postprocess"
)

func place(method postprocess.Method, src, dst string) error {
	switch method {
	case postprocess.MethodMove:
		return fileutil.MoveFile(src, dst)
	case postprocess.MethodHardlink:
		return fileutil.Hardlink(src, dst)
	case postprocess.MethodSymlink:
		return fileutil.Symlink(src, dst)
	default:
		return fileutil.CopyFileVerified(src, dst)
	}
}

func verb(method postprocess.Method) string {
	switch method {
	case postprocess.MethodMove:
		return "Moved"
	case postprocess.MethodHardlink:
		return "Hard linked"
	case postprocess.MethodSymlink:
		return "Symlinked"
	default:
		return "Copied"
	}
}

// libraryUnavailableErrors lists syscall errors that indicate the library is unavailable.
var libraryUnavailableErrors = []error{
	syscall.ENODEV,
	syscall.ENOTCONN,
	syscall.EHOSTDOWN,
	syscall.EHOSTUNREACH,
	syscall.ETIMEDOUT,
	syscall.EIO,
	syscall.ESTALE,
}

func isLibraryUnavailable(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range libraryUnavailableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
