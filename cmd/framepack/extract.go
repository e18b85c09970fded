package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"framepack/internal/config"
	"framepack/internal/history"
	"framepack/internal/services"
)

type extractFlags struct {
	ext                  string
	quality              int
	fps                  int
	mkdir                bool
	tolerateDecodeErrors bool
	ffmpeg               string
	ffprobe              string
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract [video] [frames-dir]",
		Short: "Decode every video frame into numbered image files",
		Long: `Decode a video with ffmpeg and write each frame as frame_0000.<ext>,
frame_0001.<ext>, ... into the frames directory.

Arguments default to paths.video and paths.frames_dir from the configuration.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Paths.Video = args[0]
			}
			if len(args) > 1 {
				cfg.Paths.FramesDir = args[1]
			}
			applyExtractFlags(cmd, cfg, flags)
			if err := cfg.Finalize(); err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.Video) == "" {
				return services.Wrap(services.ErrConfiguration, "extract", "video", "no video path given (argument or paths.video)", nil)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx, rec := ctx.beginRun(cmd.Context(), history.ModeExtract, cfg.Paths.Video, cfg.Paths.FramesDir)

			res, err := runExtract(runCtx, cfg, logger, cmd.ErrOrStderr())
			rec.finish(runCtx, history.Outcome{Frames: res.Frames, Err: err})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %s frames to %s in %s\n", formatCount(res.Frames), cfg.Paths.FramesDir, formatDuration(res.Elapsed))
			if res.DecodeError != nil {
				fmt.Fprintf(out, "Stopped early: %v\n", res.DecodeError)
			}
			fmt.Fprintln(out, "done")
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ext, "ext", "", "Frame image extension (jpg, jpeg, png, bmp)")
	cmd.Flags().IntVar(&flags.quality, "quality", 0, "JPEG quality (1-100)")
	cmd.Flags().IntVar(&flags.fps, "fps", 0, "Resample to this many frames per second (0 keeps every frame)")
	cmd.Flags().BoolVar(&flags.mkdir, "mkdir", false, "Create the frames directory if it is missing")
	cmd.Flags().BoolVar(&flags.tolerateDecodeErrors, "tolerate-decode-errors", false, "Stop quietly at the first undecodable frame")
	cmd.Flags().StringVar(&flags.ffmpeg, "ffmpeg", "", "ffmpeg binary")
	cmd.Flags().StringVar(&flags.ffprobe, "ffprobe", "", "ffprobe binary")

	return cmd
}

func applyExtractFlags(cmd *cobra.Command, cfg *config.Config, flags extractFlags) {
	fs := cmd.Flags()
	if fs.Changed("ext") {
		cfg.Extract.Extension = flags.ext
	}
	if fs.Changed("quality") {
		cfg.Extract.JPEGQuality = flags.quality
	}
	if fs.Changed("fps") {
		cfg.Extract.FrameRate = flags.fps
	}
	if fs.Changed("mkdir") {
		cfg.Extract.CreateOutputDir = flags.mkdir
	}
	if fs.Changed("tolerate-decode-errors") {
		cfg.Extract.TolerateDecodeErrors = flags.tolerateDecodeErrors
	}
	if fs.Changed("ffmpeg") {
		cfg.Extract.FFmpegBinary = flags.ffmpeg
	}
	if fs.Changed("ffprobe") {
		cfg.Extract.FFprobeBinary = flags.ffprobe
	}
}
