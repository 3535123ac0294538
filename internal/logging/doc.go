// Package logging assembles structured slog loggers and formatting helpers
// used across vocabsub.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with the run id, batch number and
// reasoning chain. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
