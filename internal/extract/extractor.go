package extract

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"framepack/internal/fileutil"
	"framepack/internal/frames"
	"framepack/internal/imageio"
	"framepack/internal/logging"
	"framepack/internal/services"
)

// Options configures an Extractor.
type Options struct {
	Extension            string
	Quality              int
	CreateOutputDir      bool
	TolerateDecodeErrors bool
	// ExpectedFrames sizes progress logging; zero means unknown.
	ExpectedFrames int
}

// Result summarises one extraction.
type Result struct {
	Frames    int
	FirstName string
	LastName  string
	Elapsed   time.Duration
	// DecodeError holds the decode failure that ended a tolerant run.
	DecodeError error
}

// Extractor writes every frame of a source as a numbered image file.
type Extractor struct {
	opts    Options
	encoder imageio.Encoder
	logger  *slog.Logger
	// OnFrame is called after each frame file is in place.
	OnFrame func(index int, path string)
}

// New validates opts and builds an Extractor.
func New(opts Options, logger *slog.Logger) (*Extractor, error) {
	opts.Extension = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(opts.Extension), "."))
	if opts.Extension == "" {
		opts.Extension = "jpg"
	}
	encoder, err := imageio.NewEncoder(opts.Extension, opts.Quality)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "extract", "encoder", opts.Extension, err)
	}
	return &Extractor{
		opts:    opts,
		encoder: encoder,
		logger:  logging.NewComponentLogger(logger, "extract"),
	}, nil
}

// Extract drains src into outDir. Frames already written stay in place when
// an error is returned.
func (e *Extractor) Extract(ctx context.Context, src FrameSource, outDir string) (Result, error) {
	started := time.Now()
	result := Result{}
	logger := logging.WithContext(ctx, e.logger)

	if err := e.prepareOutputDir(outDir); err != nil {
		return result, err
	}

	sampler := logging.NewProgressSampler(10)
	for index := 0; ; index++ {
		img, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				result.Elapsed = time.Since(started)
				return result, ctxErr
			}
			if services.Kind(err) == services.KindUnknown {
				err = services.Wrap(services.ErrDecodeFailure, "extract", "decode frame", frames.Name(index, e.opts.Extension), err)
			}
			if e.opts.TolerateDecodeErrors && errors.Is(err, services.ErrDecodeFailure) {
				logger.Warn("stopping at undecodable frame",
					slog.Int("frame", index),
					logging.Error(err),
					slog.String(logging.FieldErrorKind, services.Kind(err)),
				)
				result.DecodeError = err
				break
			}
			result.Elapsed = time.Since(started)
			return result, err
		}

		name := frames.Name(index, e.opts.Extension)
		path := filepath.Join(outDir, name)
		if err := e.writeFrame(path, img); err != nil {
			result.Elapsed = time.Since(started)
			return result, err
		}
		if result.Frames == 0 {
			result.FirstName = name
		}
		result.LastName = name
		result.Frames++
		if e.OnFrame != nil {
			e.OnFrame(index, path)
		}
		if percent := logging.Percent(result.Frames, e.opts.ExpectedFrames); sampler.ShouldLog(percent, "extract") {
			logger.Debug("frame written", slog.String("file", name), slog.Float64("percent", percent))
		}
	}

	result.Elapsed = time.Since(started)
	logger.Info("extraction finished",
		slog.Int("frames", result.Frames),
		slog.String("pattern", frames.Pattern(outDir, e.opts.Extension)),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (e *Extractor) prepareOutputDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return services.Wrap(services.ErrSinkWrite, "extract", "output directory", dir+" is not a directory", nil)
	case errors.Is(err, os.ErrNotExist) && e.opts.CreateOutputDir:
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return services.Wrap(services.ErrSinkWrite, "extract", "create output directory", dir, mkErr)
		}
		return nil
	default:
		return services.Wrap(services.ErrSinkWrite, "extract", "output directory", dir, err)
	}
}

func (e *Extractor) writeFrame(path string, img image.Image) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return e.encoder.Encode(w, img)
	})
	if err != nil {
		return services.Wrap(services.ErrSinkWrite, "extract", "write frame", path, err)
	}
	return nil
}
