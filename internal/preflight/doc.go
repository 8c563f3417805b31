// Package preflight provides readiness checks for the directories, binaries
// and download client postflow depends on.
//
// The CLI "postflow check" command runs RunAll and prints one row per check.
// Each check is gated by its config toggle so disabled features are skipped.
package preflight
