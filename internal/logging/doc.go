// Package logging constructs the slog loggers shared by the daemon and CLI.
//
// It supports console and JSON output with fan-out to multiple destinations,
// and provides Attr helpers plus a no-op logger so packages never need to
// nil-check their logger dependency.
package logging
