// Package export writes discovered projects as a JSON array for external
// tooling.
//
// Every record of a scan is emitted once, in discovery order, with absent
// optional fields rendered as null. Existence is probed while the document is
// built. The file is replaced atomically under an advisory lock so concurrent
// runs targeting the same path never interleave or leave a partial document.
package export
