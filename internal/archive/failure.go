package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// FailureKind classifies why an archive could not be unpacked.
type FailureKind int

const (
	Unknown FailureKind = iota
	ArchiveHeaderBroken
	IncorrectPassword
	FileOpenError
	InvalidUsage
	InvalidArchive
)

func (k FailureKind) String() string {
	switch k {
	case ArchiveHeaderBroken:
		return "archive_header_broken"
	case IncorrectPassword:
		return "incorrect_password"
	case FileOpenError:
		return "file_open_error"
	case InvalidUsage:
		return "invalid_usage"
	case InvalidArchive:
		return "invalid_archive"
	default:
		return "unknown"
	}
}

// Failure describes one archive that could not be unpacked.
type Failure struct {
	Kind FailureKind
	// Reason carries the underlying error text; it is the only detail
	// available for Unknown failures.
	Reason string
}

// Detail is the short description logged with the failure.
func (f Failure) Detail() string {
	switch f.Kind {
	case ArchiveHeaderBroken:
		return "Archive Header Broken"
	case IncorrectPassword:
		return "Incorrect RAR Password"
	case FileOpenError:
		return "File Open Error, check the parent folder and destination file permissions."
	case InvalidUsage:
		return "Invalid Rar Archive Usage"
	case InvalidArchive:
		return "Invalid Rar Archive"
	default:
		return f.Reason
	}
}

// Message is the user-facing explanation recorded in the run report.
func (f Failure) Message() string {
	switch f.Kind {
	case ArchiveHeaderBroken:
		return "Unpacking failed because the Archive Header is Broken"
	case IncorrectPassword:
		return "Unpacking failed because of an Incorrect Rar Password"
	case FileOpenError:
		return "Unpacking failed with a File Open Error (file permissions?)"
	case InvalidUsage:
		return "Unpacking Failed with Invalid Rar Archive Usage"
	case InvalidArchive:
		return "Unpacking Failed with an Invalid Rar Archive Error"
	default:
		return "Unpacking failed for an unknown reason"
	}
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail())
}

// Classify maps an error raised while opening, listing, or extracting an
// archive to a Failure. The RAR decoder does not export stable sentinels for
// every condition, so its messages are matched as well.
func Classify(err error) Failure {
	if err == nil {
		return Failure{Kind: Unknown}
	}
	reason := err.Error()
	lower := strings.ToLower(reason)

	var pathErr *fs.PathError
	switch {
	case errors.Is(err, zip.ErrFormat), errors.Is(err, zip.ErrAlgorithm):
		return Failure{Kind: InvalidArchive, Reason: reason}
	case errors.Is(err, zip.ErrChecksum):
		return Failure{Kind: ArchiveHeaderBroken, Reason: reason}
	case strings.Contains(lower, "password"), strings.Contains(lower, "encrypt"):
		return Failure{Kind: IncorrectPassword, Reason: reason}
	case errors.As(err, &pathErr), errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrNotExist):
		return Failure{Kind: FileOpenError, Reason: reason}
	case strings.Contains(lower, "signature"), strings.Contains(lower, "unknown archive version"),
		strings.Contains(lower, "not a valid"):
		return Failure{Kind: InvalidArchive, Reason: reason}
	case strings.Contains(lower, "header"), strings.Contains(lower, "crc"), strings.Contains(lower, "checksum"):
		return Failure{Kind: ArchiveHeaderBroken, Reason: reason}
	case strings.Contains(lower, "volume"), strings.Contains(lower, "multi"):
		return Failure{Kind: InvalidUsage, Reason: reason}
	default:
		return Failure{Kind: Unknown, Reason: reason}
	}
}
