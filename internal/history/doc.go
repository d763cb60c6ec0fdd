// Package history persists a snapshot of every scan in SQLite so earlier runs
// can be listed and inspected.
//
// A run row carries the scan summary (roots, store counts, failures, export
// destination) and owns one row per discovered project in global order.
// Runs are keyed by a uuid; lookups accept any unique prefix. Opening a
// database created by a different schema version fails with
// ErrSchemaMismatch rather than migrating in place.
package history
