package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"framepack/internal/history"
	"framepack/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		ef extractFlags
		pf packFlags
	)

	cmd := &cobra.Command{
		Use:   "run [video] [frames-dir] [output]",
		Short: "Extract frames from a video and pack them in one pass",
		Long: `Run extract followed by pack. The pack stage reads the frames directory
the extract stage just wrote and matches the extract extension.`,
		Args: cobra.MaximumNArgs(3),
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
			if len(args) > 2 {
				cfg.Paths.Output = args[2]
			}
			applyExtractFlags(cmd, cfg, ef)
			applyPackFlags(cmd, cfg, pf)
			if err := cfg.Finalize(); err != nil {
				return err
			}
			cfg.Paths.BitmapDir = cfg.Paths.FramesDir
			cfg.Pack.Extension = cfg.Extract.Extension
			if strings.TrimSpace(cfg.Paths.Video) == "" {
				return services.Wrap(services.ErrConfiguration, "run", "video", "no video path given (argument or paths.video)", nil)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx, rec := ctx.beginRun(cmd.Context(), history.ModeRun, cfg.Paths.Video, cfg.Paths.Output)

			extracted, err := runExtract(runCtx, cfg, logger, cmd.ErrOrStderr())
			if err != nil {
				rec.finish(runCtx, history.Outcome{Frames: extracted.Frames, Err: err})
				return err
			}
			packed, err := runPack(runCtx, cfg, logger, cmd.ErrOrStderr())
			rec.finish(runCtx, history.Outcome{Frames: packed.Files, BytesAppended: packed.BytesAppended, Err: err})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %s frames to %s in %s\n", formatCount(extracted.Frames), cfg.Paths.FramesDir, formatDuration(extracted.Elapsed))
			if extracted.DecodeError != nil {
				fmt.Fprintf(out, "Stopped early: %v\n", extracted.DecodeError)
			}
			printPackSummary(cmd, cfg, packed)
			fmt.Fprintln(out, "done")
			return nil
		},
	}

	cmd.Flags().StringVar(&ef.ext, "ext", "", "Frame image extension (jpg, jpeg, png, bmp)")
	cmd.Flags().IntVar(&ef.quality, "quality", 0, "JPEG quality (1-100)")
	cmd.Flags().IntVar(&ef.fps, "fps", 0, "Resample to this many frames per second (0 keeps every frame)")
	cmd.Flags().BoolVar(&ef.mkdir, "mkdir", false, "Create the frames directory if it is missing")
	cmd.Flags().BoolVar(&ef.tolerateDecodeErrors, "tolerate-decode-errors", false, "Stop quietly at the first undecodable frame")
	cmd.Flags().StringVar(&ef.ffmpeg, "ffmpeg", "", "ffmpeg binary")
	cmd.Flags().StringVar(&ef.ffprobe, "ffprobe", "", "ffprobe binary")
	cmd.Flags().IntVar(&pf.window, "window", 0, "Sampling window edge in pixels")
	cmd.Flags().IntVar(&pf.threshold, "threshold", 0, "Channel sum at or above which a pixel is set")
	cmd.Flags().IntVar(&pf.channels, "channels", 0, "Channels summed per pixel (1, 3, or 4)")
	cmd.Flags().IntVar(&pf.bitDepth, "bit-depth", 0, "Bits per channel (8 or 16)")
	cmd.Flags().StringVar(&pf.order, "order", "", "File order: numeric or filesystem")
	cmd.Flags().IntVar(&pf.workers, "workers", 0, "Images decoded in parallel")

	return cmd
}
