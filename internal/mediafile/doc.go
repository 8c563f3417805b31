// Package mediafile classifies download file listings.
//
// It recognizes video files (excluding samples and resource forks), the first
// volume of RAR sets and ZIP archives, partial-transfer sync markers and
// subtitle sidecars, and partitions a listing into the sets the
// post-processing pipeline works with.
package mediafile
