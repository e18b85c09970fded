// Package services defines the shared error markers and context helpers used
// by the extract and pack stages.
//
// Key responsibilities:
//   - Structured error markers (source unavailable, decode failure, geometry,
//     sink write) plus the Wrap helper that keeps the marker and the cause on
//     the same errors.Is chain.
//   - Kind, which turns a wrapped error into the classification name stored in
//     run history.
//   - Context helpers that stamp run identifiers and stage names for logging.
//
// Every failure is fatal for the run: stages return the first classified error
// and the CLI reports it and exits non-zero.
package services
