// Package ffprobe wraps the ffprobe CLI to report the streams embedded in a
// media container. The subtitle gate uses it to learn which subtitle languages
// a video already carries.
package ffprobe
