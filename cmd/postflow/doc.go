// Command postflow post-processes completed downloads into the media library.
//
// The process subcommand runs the pipeline once over a download folder and
// prints the report. The remaining subcommands inspect and edit the history
// database, per-show subtitle settings, tracked seeding torrents, and the
// configuration file.
package main
