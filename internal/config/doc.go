// Package config loads, normalizes, and validates framepack configuration.
//
// It supplies repository defaults, reads TOML files, applies FRAMEPACK_*
// environment overrides, and expands user paths (including tilde shortcuts).
// The Config type carries every knob the extract and pack stages need: the
// four input/output paths, the image extension filters, the sampling window,
// threshold, channel layout, and ordering policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, derived thresholds, and errors tagged as configuration
// failures.
package config
