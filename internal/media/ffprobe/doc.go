// Package ffprobe wraps ffprobe JSON output for the video sources frames are
// extracted from.
//
// Inspect runs ffprobe and decodes streams plus container format. PrimaryVideo
// picks the stream the extractor decodes, and FrameCountEstimate turns the
// reported counts or rate and duration into a progress total.
package ffprobe
