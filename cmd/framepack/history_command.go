package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"framepack/internal/history"
)

type historyRow struct {
	ID            string     `json:"id"`
	Mode          string     `json:"mode"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	Destination   string     `json:"destination"`
	Frames        int        `json:"frames"`
	BytesAppended int64      `json:"bytes_appended"`
	ErrorKind     string     `json:"error_kind,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent extract and pack runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.HistoryPath()
			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				if asJSON {
					return writeJSON(cmd, []historyRow{})
				}
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				rows := make([]historyRow, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, historyRow{
						ID:            run.ID,
						Mode:          string(run.Mode),
						Status:        string(run.Status),
						Source:        run.Source,
						Destination:   run.Destination,
						Frames:        run.Frames,
						BytesAppended: run.BytesAppended,
						ErrorKind:     run.ErrorKind,
						ErrorMessage:  run.ErrorMessage,
						StartedAt:     run.StartedAt,
						FinishedAt:    run.FinishedAt,
					})
				}
				return writeJSON(cmd, rows)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				result := string(run.Status)
				if run.ErrorKind != "" {
					result += " (" + run.ErrorKind + ")"
				}
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(run.Mode),
					result,
					formatCount(run.Frames),
					formatBytes(run.BytesAppended),
					formatDuration(run.Duration()),
					run.Destination,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Started", "Mode", "Status", "Frames", "Appended", "Took", "Destination"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
