package extract

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	vidio "github.com/AlexEidt/Vidio"

	"framepack/internal/services"
)

// toolPathMu serializes PATH edits; Vidio runs ffmpeg and ffprobe by name.
var toolPathMu sync.Mutex

// SourceOption configures OpenVideo.
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	ffmpegBinary  string
	ffprobeBinary string
	frameRate     float64
}

// WithFFmpegBinary selects the ffmpeg executable. A path must name a file
// called ffmpeg.
func WithFFmpegBinary(binary string) SourceOption {
	return func(o *sourceOptions) {
		if strings.TrimSpace(binary) != "" {
			o.ffmpegBinary = strings.TrimSpace(binary)
		}
	}
}

// WithFFprobeBinary selects the ffprobe executable. A path must name a file
// called ffprobe.
func WithFFprobeBinary(binary string) SourceOption {
	return func(o *sourceOptions) {
		if strings.TrimSpace(binary) != "" {
			o.ffprobeBinary = strings.TrimSpace(binary)
		}
	}
}

// WithFrameRate drops frames so at most fps frames per second of video are
// emitted. Zero, or a rate at or above the source rate, keeps every frame.
func WithFrameRate(fps float64) SourceOption {
	return func(o *sourceOptions) {
		if fps > 0 {
			o.frameRate = fps
		}
	}
}

// VideoSource decodes the first video stream of a file with Vidio.
type VideoSource struct {
	path      string
	video     *vidio.Video
	frame     *image.RGBA
	expected  int
	decoded   int
	step      float64
	nextEmit  float64
	finished  bool
	closeOnce sync.Once
}

// OpenVideo probes path and prepares its first video stream for decoding.
func OpenVideo(ctx context.Context, path string, opts ...SourceOption) (*VideoSource, error) {
	options := sourceOptions{ffmpegBinary: "ffmpeg", ffprobeBinary: "ffprobe"}
	for _, opt := range opts {
		opt(&options)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrSourceUnavailable, "extract", "open video", "video path is empty", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "extract", "open video", path, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrSourceUnavailable, "extract", "open video", path+" is a directory", nil)
	}

	if err := useTool("ffmpeg", options.ffmpegBinary); err != nil {
		return nil, err
	}
	if err := useTool("ffprobe", options.ffprobeBinary); err != nil {
		return nil, err
	}

	video, err := vidio.NewVideo(path)
	if err != nil {
		if strings.Contains(err.Error(), "not installed") {
			return nil, services.Wrap(services.ErrExternalTool, "extract", "open video", path, err)
		}
		return nil, services.Wrap(services.ErrSourceUnavailable, "extract", "probe video", path, err)
	}
	if video.Width() <= 0 || video.Height() <= 0 {
		video.Close()
		return nil, services.Wrap(services.ErrSourceUnavailable, "extract", "probe video", path+" has no video stream", nil)
	}

	frame := image.NewRGBA(image.Rect(0, 0, video.Width(), video.Height()))
	if err := video.SetFrameBuffer(frame.Pix); err != nil {
		video.Close()
		return nil, services.Wrap(services.ErrDecodeFailure, "extract", "frame buffer", path, err)
	}

	src := &VideoSource{
		path:     path,
		video:    video,
		frame:    frame,
		expected: video.Frames(),
	}
	if fps := video.FPS(); options.frameRate > 0 && fps > options.frameRate {
		src.step = fps / options.frameRate
	}
	return src, nil
}

// Size returns the frame dimensions.
func (s *VideoSource) Size() (int, int) {
	return s.frame.Rect.Dx(), s.frame.Rect.Dy()
}

// FrameCountEstimate returns the number of frames Next should yield, or 0
// when the container does not record a frame count.
func (s *VideoSource) FrameCountEstimate() int {
	if s.expected <= 0 {
		return 0
	}
	if s.step > 0 {
		return int(math.Ceil(float64(s.expected) / s.step))
	}
	return s.expected
}

// Next decodes the next frame. The stream ending before the container's
// recorded frame count is a decode failure rather than io.EOF.
func (s *VideoSource) Next(ctx context.Context) (image.Image, error) {
	for {
		if s.finished {
			return nil, io.EOF
		}
		if err := ctx.Err(); err != nil {
			_ = s.Close()
			return nil, err
		}
		if !s.video.Read() {
			s.finished = true
			if s.expected > 0 && s.decoded < s.expected {
				msg := fmt.Sprintf("%s: stream ended after %d of %d frames", s.path, s.decoded, s.expected)
				return nil, services.Wrap(services.ErrDecodeFailure, "extract", "decode frame", msg, nil)
			}
			return nil, io.EOF
		}

		index := s.decoded
		s.decoded++
		if s.step > 0 {
			if float64(index) < s.nextEmit {
				continue
			}
			s.nextEmit += s.step
		}

		img := image.NewRGBA(s.frame.Rect)
		copy(img.Pix, s.frame.Pix)
		return img, nil
	}
}

// Close stops the decoder.
func (s *VideoSource) Close() error {
	s.closeOnce.Do(func() {
		s.finished = true
		s.video.Close()
	})
	return nil
}

// useTool puts the directory of a configured binary first on PATH so Vidio
// runs it. A bare name is left to the existing PATH.
func useTool(name, binary string) error {
	if binary == "" || binary == name {
		return nil
	}
	if !strings.ContainsRune(binary, os.PathSeparator) {
		return services.Wrap(services.ErrConfiguration, "extract", name,
			fmt.Sprintf("%q must be %q or a path ending in /%s", binary, name, name), nil)
	}
	if filepath.Base(binary) != name {
		return services.Wrap(services.ErrConfiguration, "extract", name,
			fmt.Sprintf("%s must be named %s", binary, name), nil)
	}
	abs, err := filepath.Abs(binary)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "extract", name, binary, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", name, abs, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrExternalTool, "extract", name, abs+" is a directory", nil)
	}

	dir := filepath.Dir(abs)
	toolPathMu.Lock()
	defer toolPathMu.Unlock()
	current := os.Getenv("PATH")
	entries := filepath.SplitList(current)
	if len(entries) > 0 && entries[0] == dir {
		return nil
	}
	if current == "" {
		return os.Setenv("PATH", dir)
	}
	return os.Setenv("PATH", dir+string(os.PathListSeparator)+current)
}
