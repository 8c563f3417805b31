// Package history persists post-processing history in SQLite.
//
// The store records download actions (snatched, downloaded, failed,
// subtitled), per-show subtitle settings, and the torrents waiting to be moved
// to seed storage. The pipeline reads it to avoid reprocessing finished
// releases; the default media processor writes to it after placing a file.
//
// The schema is embedded and its version is stamped in PRAGMA user_version.
// A version mismatch is reported with ErrSchemaMismatch rather than migrated
// in place.
package history
