// Package services defines shared utilities consumed by the post-processing
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper so failures carry stage
//     context and map to consistent operator hints and exit codes.
//
// Use these helpers when wiring new collaborators so error handling and
// observability stay uniform across the pipeline.
package services
