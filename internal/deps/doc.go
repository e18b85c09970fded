// Package deps checks that the external binaries framepack shells out to
// (ffmpeg and ffprobe) can be found.
package deps
