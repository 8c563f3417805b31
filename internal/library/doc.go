// Package library places post-processed episodes into the media library and
// records the outcome in history.
//
// Placer is the default media processor driven by the post-processing
// pipeline: it derives the show folder and season from the release name,
// places the video with the requested strategy, carries sibling subtitles
// along, and remembers the torrent the release came from so it can later be
// moved to seed storage. FailedHandler is the matching failed-download
// processor. Expected failures are returned as postprocess failure signals;
// an unreachable library aborts the run instead.
package library
