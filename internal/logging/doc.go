// Package logging assembles structured slog loggers used across framepack.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing (stderr plus an optional log file), and exposes context-aware
// helpers that tag lines with run IDs and stage names. The package also
// provides a no-op logger for tests and a progress sampler that keeps
// per-frame loops from flooding the log.
package logging
