// Package logging builds slog loggers for the CLI.
//
// Reports are written to stdout by the commands themselves; loggers
// constructed here default to stderr so diagnostic output never mixes
// with report output. Console and JSON handlers are available, plus a
// no-op logger for tests.
package logging
