package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"framepack/internal/bitmap"
	"framepack/internal/blob"
	"framepack/internal/media/ffprobe"
	"framepack/internal/services"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe a packed blob or a source video",
	}
	cmd.AddCommand(newInspectBlobCommand(ctx))
	cmd.AddCommand(newInspectVideoCommand(ctx))
	return cmd
}

type blobSummary struct {
	Path       string   `json:"path"`
	SizeBytes  int64    `json:"size_bytes"`
	Window     int      `json:"window"`
	RecordSize int      `json:"record_size"`
	Records    int      `json:"records"`
	Trailing   int      `json:"trailing_bytes"`
	Frame      *int     `json:"frame,omitempty"`
	Bitmap     []string `json:"bitmap,omitempty"`
}

func newInspectBlobCommand(ctx *commandContext) *cobra.Command {
	var (
		window int
		frame  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "blob [file]",
		Short: "Show record counts for a packed blob and optionally draw one record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Paths.Output
			if len(args) > 0 {
				path = args[0]
			}
			if !cmd.Flags().Changed("window") {
				window = cfg.Pack.Window
			}
			if window < 1 {
				return services.Wrap(services.ErrConfiguration, "inspect", "window", fmt.Sprintf("must be positive, got %d", window), nil)
			}
			recordSize := bitmap.Sampler{Window: window}.RecordSize()

			info, err := blob.Stat(path, recordSize)
			if err != nil {
				return err
			}
			summary := blobSummary{
				Path:       info.Path,
				SizeBytes:  info.Size,
				Window:     window,
				RecordSize: info.RecordSize,
				Records:    info.Records,
				Trailing:   info.Trailing,
			}

			var art string
			if cmd.Flags().Changed("frame") {
				record, err := blob.ReadRecord(path, recordSize, frame)
				if err != nil {
					return err
				}
				rows, err := bitmap.Unpack(record, window)
				if err != nil {
					return err
				}
				art = bitmap.Render(rows, "#", ".")
				summary.Frame = &frame
				for _, row := range rows {
					summary.Bitmap = append(summary.Bitmap, bitmap.Render([][]bool{row}, "1", "0")[:window])
				}
			}

			if asJSON {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValues([][2]string{
				{"Path", info.Path},
				{"Size", fmt.Sprintf("%s (%s bytes)", formatBytes(info.Size), formatCount(int(info.Size)))},
				{"Window", fmt.Sprintf("%dx%d", window, window)},
				{"Record size", strconv.Itoa(info.RecordSize) + " bytes"},
				{"Records", formatCount(info.Records)},
				{"Trailing bytes", strconv.Itoa(info.Trailing)},
			}))
			if art != "" {
				fmt.Fprintf(out, "\nRecord %d:\n%s", frame, art)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&window, "window", 0, "Sampling window the blob was packed with")
	cmd.Flags().IntVar(&frame, "frame", 0, "Draw the record at this zero-based index")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type videoSummary struct {
	Path            string  `json:"path"`
	Codec           string  `json:"codec"`
	PixelFormat     string  `json:"pixel_format"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FrameRate       float64 `json:"frame_rate"`
	DurationSeconds float64 `json:"duration_seconds"`
	SizeBytes       int64   `json:"size_bytes"`
	EstimatedFrames int     `json:"estimated_frames"`

	Probe json.RawMessage `json:"probe,omitempty"`
}

func newInspectVideoCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "video [file]",
		Short: "Summarise the primary video stream with ffprobe",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Paths.Video
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return services.Wrap(services.ErrConfiguration, "inspect", "video", "no video path given (argument or paths.video)", nil)
			}
			if _, err := os.Stat(path); err != nil {
				return services.Wrap(services.ErrSourceUnavailable, "inspect", "stat video", path, err)
			}

			probe, err := ffprobe.Inspect(cmd.Context(), cfg.Extract.FFprobeBinary, path)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "inspect", "ffprobe", path, err)
			}
			stream, ok := probe.PrimaryVideo()
			if !ok {
				return services.Wrap(services.ErrSourceUnavailable, "inspect", "probe", "no video stream in "+path, nil)
			}
			summary := videoSummary{
				Path:            path,
				Codec:           stream.CodecName,
				PixelFormat:     stream.PixFmt,
				Width:           stream.Width,
				Height:          stream.Height,
				FrameRate:       stream.FrameRate(),
				DurationSeconds: probe.DurationSeconds(),
				SizeBytes:       probe.SizeBytes(),
				EstimatedFrames: probe.FrameCountEstimate(float64(cfg.Extract.FrameRate)),
			}
			if asJSON {
				if raw {
					summary.Probe = probe.RawJSON()
				}
				return writeJSON(cmd, summary)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
				{"Path", summary.Path},
				{"Codec", summary.Codec},
				{"Pixel format", summary.PixelFormat},
				{"Resolution", fmt.Sprintf("%dx%d", summary.Width, summary.Height)},
				{"Frame rate", strconv.FormatFloat(summary.FrameRate, 'f', 3, 64)},
				{"Duration", strconv.FormatFloat(summary.DurationSeconds, 'f', 2, 64) + "s"},
				{"Size", formatBytes(summary.SizeBytes)},
				{"Estimated frames", formatCount(summary.EstimatedFrames)},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Include the full ffprobe payload in JSON output")
	return cmd
}
