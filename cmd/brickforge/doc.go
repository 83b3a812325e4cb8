// Package main hosts the brickforge CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the daemon: set submission, job status, catalog validation,
// set listings, mesh downloads, and configuration scaffolding. It centralizes
// configuration resolution and API address discovery so subcommands can focus
// on user experience instead of wiring.
package main
