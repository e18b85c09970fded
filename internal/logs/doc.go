// Package logs reads the framepack log file for `framepack logs`.
//
// Tail returns the last N lines or everything past a byte offset, optionally
// waiting for new lines to arrive, and can keep only the lines written by one
// run. Memory stays bounded by the requested line count.
package logs
