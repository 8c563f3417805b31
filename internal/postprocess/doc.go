// Package postprocess turns completed downloads into library entries.
//
// Pipeline.Process resolves the requested directory, then for the root and
// each immediate subdirectory decides whether it holds processable content,
// unpacks archives, skips files already recorded in history, optionally
// postpones files that have no subtitles yet, hands every remaining video to
// the media processor, and cleans up according to the file-handling strategy.
// Partial failures never stop the run: they are collected into the Report,
// whose text explains every skipped or failed unit of work.
//
// The pipeline is synchronous and single-threaded. Callers serialize runs
// (the CLI holds a lock file) and bound latency externally if needed.
//
// Collaborators are narrow interfaces so the core stays independent of the
// concrete history store, subtitle inspector, library placer, and torrent
// client wired in by cmd/postflow.
package postprocess
