// Package config loads, normalizes, and validates postflow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and layers POSTFLOW_* environment overrides on
// top so secrets such as the torrent client password never need to live in the
// file. The Config type centralizes every knob the post-processing pipeline and
// CLI need, from the download root and file-handling method to subtitle and
// seeding policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enumerations, and clear validation errors.
package config
