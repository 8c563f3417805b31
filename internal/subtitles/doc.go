// Package subtitles inspects the subtitles available for a video: the
// languages of tracks embedded in the container (via ffprobe) and subtitle
// sidecar files sitting next to it. ShowPolicy answers whether subtitle
// handling is enabled for the show a file belongs to.
package subtitles
