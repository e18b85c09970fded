package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"framepack/internal/blob"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [blob] [dst]",
		Short: "Write an LZ4-compressed copy of a packed blob",
		Long: `Compress a packed blob into an LZ4 frame. The source blob is left untouched.

The blob defaults to paths.output and the destination to <blob>.lz4.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src := cfg.Paths.Output
			if len(args) > 0 {
				src = args[0]
			}
			dst := src + ".lz4"
			if len(args) > 1 {
				dst = args[1]
			}

			res, err := blob.ExportLZ4(src, dst)
			if err != nil {
				return err
			}
			ratio := 0.0
			if res.InputBytes > 0 {
				ratio = float64(res.OutputBytes) / float64(res.InputBytes) * 100
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s (%s -> %s, %.1f%%)\n",
				src, dst, formatBytes(res.InputBytes), formatBytes(res.OutputBytes), ratio)
			return nil
		},
	}
}
