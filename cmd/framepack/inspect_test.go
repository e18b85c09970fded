package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"

	"framepack/internal/services"
	"framepack/internal/testsupport"
)

func TestInspectBlobDrawsFrame(t *testing.T) {
	env := setupCLITestEnv(t)
	record := make([]byte, 8)
	record[0] = 0x80
	testsupport.WriteBlob(t, env.cfg.Paths.Output, make([]byte, 8), record, []byte{0x01})

	out, _, err := runCLI(t, []string{"inspect", "blob", "--frame", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect blob: %v", err)
	}
	requireContains(t, out, "Records")
	requireContains(t, out, "Record 1:\n#.......\n........\n")
}

func TestInspectBlobJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteBlob(t, env.cfg.Paths.Output, make([]byte, 8), make([]byte, 8), []byte{0x01, 0x02})

	out, _, err := runCLI(t, []string{"inspect", "blob", env.cfg.Paths.Output, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect blob: %v", err)
	}
	var summary blobSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if summary.Records != 2 || summary.Trailing != 2 || summary.SizeBytes != 18 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestInspectBlobFrameOutOfRange(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteBlob(t, env.cfg.Paths.Output, make([]byte, 8))

	_, _, err := runCLI(t, []string{"inspect", "blob", "--frame", "3"}, env.configPath)
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestInspectVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"inspect", "video", env.video, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect video: %v", err)
	}
	var summary videoSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if summary.Width != 8 || summary.Height != 8 || summary.EstimatedFrames != 2 || summary.Codec != "h264" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestInspectVideoRawProbe(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"inspect", "video", env.video, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect video: %v", err)
	}
	var summary videoSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if summary.Probe != nil {
		t.Fatalf("expected no probe payload without --raw, got %s", summary.Probe)
	}

	out, _, err = runCLI(t, []string{"inspect", "video", env.video, "--json", "--raw"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect video --raw: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	var probe struct {
		Streams []struct {
			CodecName string `json:"codec_name"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(summary.Probe, &probe); err != nil {
		t.Fatalf("decode probe: %v", err)
	}
	if len(probe.Streams) != 1 || probe.Streams[0].CodecName != "h264" {
		t.Fatalf("unexpected probe payload %s", summary.Probe)
	}
}

func TestExportWritesLZ4Copy(t *testing.T) {
	env := setupCLITestEnv(t)
	data := []byte{0xff, 0, 0xff, 0, 0xff, 0, 0xff, 0}
	testsupport.WriteBlob(t, env.cfg.Paths.Output, data)

	out, _, err := runCLI(t, []string{"export"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported")

	f, err := os.Open(env.cfg.Paths.Output + ".lz4")
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	got, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("unexpected decompressed bytes % x", got)
	}
}

func TestExportMissingBlob(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"export", filepath.Join(env.baseDir, "missing.bin")}, env.configPath)
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}
