package main

import (
	"context"
	"io"
	"log/slog"

	"framepack/internal/bitmap"
	"framepack/internal/config"
	"framepack/internal/extract"
	"framepack/internal/frames"
	"framepack/internal/packer"
)

func samplerFromConfig(cfg *config.Config) bitmap.Sampler {
	return bitmap.Sampler{
		Window:    cfg.Pack.Window,
		Threshold: cfg.Pack.Threshold,
		Channels:  cfg.Pack.Channels,
		BitDepth:  cfg.Pack.BitDepth,
	}
}

// runExtract decodes cfg.Paths.Video into cfg.Paths.FramesDir.
func runExtract(ctx context.Context, cfg *config.Config, logger *slog.Logger, progressOut io.Writer) (extract.Result, error) {
	src, err := extract.OpenVideo(ctx, cfg.Paths.Video,
		extract.WithFFmpegBinary(cfg.Extract.FFmpegBinary),
		extract.WithFFprobeBinary(cfg.Extract.FFprobeBinary),
		extract.WithFrameRate(float64(cfg.Extract.FrameRate)),
	)
	if err != nil {
		return extract.Result{}, err
	}
	defer src.Close()

	extractor, err := extract.New(extract.Options{
		Extension:            cfg.Extract.Extension,
		Quality:              cfg.Extract.JPEGQuality,
		CreateOutputDir:      cfg.Extract.CreateOutputDir,
		TolerateDecodeErrors: cfg.Extract.TolerateDecodeErrors,
		ExpectedFrames:       src.FrameCountEstimate(),
	}, logger)
	if err != nil {
		return extract.Result{}, err
	}

	bar := newProgress(progressOut, src.FrameCountEstimate(), "extracting")
	extractor.OnFrame = func(int, string) { _ = bar.Add(1) }
	res, err := extractor.Extract(ctx, src, cfg.Paths.FramesDir)
	_ = bar.Finish()
	return res, err
}

// runPack appends one record per frame in cfg.Paths.BitmapDir to cfg.Paths.Output.
func runPack(ctx context.Context, cfg *config.Config, logger *slog.Logger, progressOut io.Writer) (packer.Result, error) {
	p, err := packer.New(packer.Options{
		Extension: cfg.Pack.Extension,
		Order:     frames.Order(cfg.Pack.Order),
		Sampler:   samplerFromConfig(cfg),
		Workers:   cfg.Pack.Workers,
	}, logger)
	if err != nil {
		return packer.Result{}, err
	}

	var bar progressReporter = noopProgress{}
	p.OnRecord = func(done, total int, _ string) {
		if done == 1 {
			bar = newProgress(progressOut, total, "packing")
		}
		_ = bar.Add(1)
	}
	res, err := p.PackDirectory(ctx, cfg.Paths.BitmapDir, cfg.Paths.Output)
	_ = bar.Finish()
	return res, err
}
