// Package extract turns a video into a directory of numbered still images.
//
// A FrameSource yields decoded frames in order. VideoSource is the production
// source: Vidio probes the stream with ffprobe and reads RGBA frames from an
// ffmpeg pipe. Extractor drains any source into frame_NNNN.<ext> files,
// writing each one atomically so a crash never leaves a half-written frame
// that a later pack run would trip over.
package extract
