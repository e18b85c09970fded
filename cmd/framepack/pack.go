package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"framepack/internal/config"
	"framepack/internal/frames"
	"framepack/internal/history"
	"framepack/internal/packer"
)

type packFlags struct {
	ext       string
	window    int
	threshold int
	channels  int
	bitDepth  int
	order     string
	workers   int
}

func newPackCommand(ctx *commandContext) *cobra.Command {
	var flags packFlags

	cmd := &cobra.Command{
		Use:   "pack [bitmap-dir] [output]",
		Short: "Append one packed bitmap per image to the output blob",
		Long: `Sample the top-left window of every image in the bitmap directory whose
name ends with .<ext> and append the packed bits to the output file.

The output is append-only: packing the same directory twice doubles its size.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Paths.BitmapDir = args[0]
			}
			if len(args) > 1 {
				cfg.Paths.Output = args[1]
			}
			applyPackFlags(cmd, cfg, flags)
			if err := cfg.Finalize(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx, rec := ctx.beginRun(cmd.Context(), history.ModePack, cfg.Paths.BitmapDir, cfg.Paths.Output)

			res, err := runPack(runCtx, cfg, logger, cmd.ErrOrStderr())
			rec.finish(runCtx, history.Outcome{Frames: res.Files, BytesAppended: res.BytesAppended, Err: err})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printPackSummary(cmd, cfg, res)
			fmt.Fprintln(out, "done")
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ext, "ext", "", "Case-sensitive image file extension to pack")
	cmd.Flags().IntVar(&flags.window, "window", 0, "Sampling window edge in pixels")
	cmd.Flags().IntVar(&flags.threshold, "threshold", 0, "Channel sum at or above which a pixel is set")
	cmd.Flags().IntVar(&flags.channels, "channels", 0, "Channels summed per pixel (1, 3, or 4)")
	cmd.Flags().IntVar(&flags.bitDepth, "bit-depth", 0, "Bits per channel (8 or 16)")
	cmd.Flags().StringVar(&flags.order, "order", "", "File order: numeric or filesystem")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Images decoded in parallel")

	return cmd
}

func applyPackFlags(cmd *cobra.Command, cfg *config.Config, flags packFlags) {
	fs := cmd.Flags()
	if fs.Changed("ext") {
		cfg.Pack.Extension = flags.ext
	}
	if fs.Changed("window") {
		cfg.Pack.Window = flags.window
	}
	if fs.Changed("channels") {
		cfg.Pack.Channels = flags.channels
	}
	if fs.Changed("bit-depth") {
		cfg.Pack.BitDepth = flags.bitDepth
	}
	switch {
	case fs.Changed("threshold"):
		cfg.Pack.Threshold = flags.threshold
	case cfg.Pack.ThresholdDerived():
		// Re-derive for a changed channel layout.
		cfg.Pack.Threshold = 0
	}
	if fs.Changed("order") {
		cfg.Pack.Order = flags.order
	}
	if fs.Changed("workers") {
		cfg.Pack.Workers = flags.workers
	}
}

func printPackSummary(cmd *cobra.Command, cfg *config.Config, res packer.Result) {
	out := cmd.OutOrStdout()
	if res.Files == 0 {
		fmt.Fprintf(out, "No *.%s files in %s\n", cfg.Pack.Extension, cfg.Paths.BitmapDir)
		return
	}
	fmt.Fprintf(out, "Packed %s images (%s) into %s in %s\n",
		formatCount(res.Files), formatBytes(res.BytesAppended), cfg.Paths.Output, formatDuration(res.Elapsed))
	if res.Gaps.Missing > 0 {
		first := res.Gaps.Spans[0]
		fmt.Fprintf(out, "Missing frame indices: %s (first %s)\n", formatCount(res.Gaps.Missing), formatSpan(first))
	}
}

func formatSpan(span frames.Span) string {
	if span.From == span.To {
		return strconv.Itoa(span.From)
	}
	return strconv.Itoa(span.From) + "-" + strconv.Itoa(span.To)
}
