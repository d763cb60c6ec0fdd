// Package logging assembles structured slog loggers for ideprojects.
//
// It owns the console and JSON handlers, level parsing, and the attribute
// helpers components use to tag diagnostics with a component name, run ID, and
// the event_type/error_hint/impact triple expected on warnings. Logs always go
// to stderr so the report on stdout stays clean. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
