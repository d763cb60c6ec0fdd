// Package project defines the canonical record for a recently opened IDE
// project, independent of the store format it was discovered in.
//
// Records are built once per metadata entry and never modified afterwards.
// Optional fields use pointers so that "not present in the source" stays
// distinguishable from an explicitly empty value. Facts that depend on the
// moment of reading, such as whether the project directory still exists, are
// kept outside the record by the aggregate package.
package project
