// Package archive lists and extracts RAR and ZIP downloads.
//
// Extraction flattens archive-internal paths into the target directory and
// never overwrites existing files. Failures are returned as a closed set of
// FailureKind values so callers can report them per archive and carry on with
// the next one.
package archive
