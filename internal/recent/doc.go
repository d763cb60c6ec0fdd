// Package recent parses IDE recent-project stores.
//
// The stores are XML documents made of component elements. Components whose
// name mentions recent projects or solutions carry an additionalInfo map with
// one entry per project path, optional per-project metadata, and a
// lastOpenedProject option naming the most recently opened entry.
//
// The document is decoded into a generic element tree rather than fixed
// structs because IDE versions disagree on nesting depth and option names.
// Anything that does not match the expected shape is ignored; only markup that
// cannot be decoded at all is reported as an error.
package recent
