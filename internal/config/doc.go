// Package config loads, normalizes, and validates ideprojects configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and resolves the JSON_OUTPUT_PATH environment override once so
// that the run mode is decided in a single place. Downstream packages receive
// the resulting Config as an explicit parameter and never consult the
// environment themselves.
package config
