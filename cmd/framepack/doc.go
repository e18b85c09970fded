// Package main hosts the framepack CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the internal
// packages: extract decodes a video into numbered frame images, pack folds a
// directory of frames into the append-only bitmap blob, and run does both.
// Supporting commands inspect blobs and videos, export compressed copies,
// list the run history, and check external dependencies.
//
// Configuration resolution, logger construction, and run-history bookkeeping
// live in commandContext so subcommands only translate flags into config.
package main
