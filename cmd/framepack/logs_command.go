package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"framepack/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the framepack log file",
		Long: `Print the last lines of state_dir/framepack.log. The file is only written
when logging.file is enabled. Use --run with an ID from "framepack history" to
see a single run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogPath()
			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !follow {
				fmt.Fprintf(out, "No log file at %s (enable logging.file)\n", path)
				return nil
			}

			match := logs.MatchRun(runID)
			chunk, err := logs.Tail(cmd.Context(), path, logs.Options{Offset: -1, Limit: lines, Match: match})
			if err != nil {
				return err
			}
			for _, line := range chunk.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			offset := chunk.Offset
			for {
				chunk, err := logs.Tail(cmd.Context(), path, logs.Options{Offset: offset, Follow: true, Wait: time.Second, Match: match})
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				for _, line := range chunk.Lines {
					fmt.Fprintln(out, line)
				}
				offset = chunk.Offset
			}
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&runID, "run", "", "Only show lines for this run ID")
	return cmd
}
