// Package report renders the human-readable scan report: projects grouped by
// IDE version, the same projects ranked globally by last activation, and a
// per-source summary table.
//
// Rendering is pure formatting over views built by the aggregate package.
package report
