// Package main hosts the ideprojects CLI entrypoint and command graph.
//
// Running the binary without a subcommand performs one scan of the configured
// IDE configuration roots. When JSON_OUTPUT_PATH is set the run is silent and
// only writes the export; otherwise the text report is printed before the
// export is written. Subcommands expose the report and export steps on their
// own, browse stored scan history, and scaffold configuration.
//
// Keep this package lean: scanning, rendering, and persistence live in the
// internal packages; commands here only resolve configuration and wire them.
package main
