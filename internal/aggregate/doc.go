// Package aggregate drives a full scan across configuration roots and derives
// the two read-only orderings consumed by the report and the exporter.
//
// Scanning is sequential and tolerant: a missing root or an unparsable store
// is logged and skipped so one bad source never hides the others. Views are
// rebuilt on demand and probe the filesystem each time, so existence reflects
// the moment of reading rather than the moment of scanning.
package aggregate
