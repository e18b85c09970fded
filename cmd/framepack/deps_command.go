package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"framepack/internal/deps"
	"framepack/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var stage string

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external binaries and directory permissions",
		Long: `Check that ffmpeg and ffprobe resolve and that the configured directories
can be read or written for the selected stage (extract, pack, or run).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			switch stage {
			case preflight.StageExtract, preflight.StagePack, preflight.StageRun:
			default:
				return fmt.Errorf("unknown stage %q (want extract, pack, or run)", stage)
			}

			results := preflight.RunAll(cfg, stage)
			rows := make([][]string, 0, len(results))
			for _, res := range results {
				state := "ok"
				if !res.Passed {
					state = "FAIL"
				}
				rows = append(rows, []string{res.Name, state, res.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if stage != preflight.StagePack {
				for _, status := range deps.Missing(preflight.CheckSystemDeps(cfg)) {
					fmt.Fprintf(out, "%s is missing: %s. Install it or set extract.%s_binary.\n",
						status.Name, strings.ToLower(status.Description), strings.ToLower(status.Name))
				}
			}
			return preflight.Err(results)
		},
	}

	cmd.Flags().StringVar(&stage, "stage", preflight.StageRun, "Stage to check: extract, pack, or run")
	return cmd
}
