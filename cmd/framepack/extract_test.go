package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"framepack/internal/frames"
	"framepack/internal/services"
)

func TestExtractWritesNumberedFrames(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"extract", env.video, "--ext", "png"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "Extracted 2 frames")
	requireContains(t, out, "done")

	entries, err := frames.List(env.cfg.Paths.FramesDir, "png", frames.OrderNumeric)
	if err != nil {
		t.Fatalf("list frames: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "frame_0000.png" || entries[1].Name != "frame_0001.png" {
		t.Fatalf("unexpected frames %+v", entries)
	}
}

func TestExtractRequiresVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestExtractMissingVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract", filepath.Join(env.baseDir, "nope.mp4")}, env.configPath)
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestExtractMissingFramesDirNeedsMkdir(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "new-frames")

	_, _, err := runCLI(t, []string{"extract", env.video, dir}, env.configPath)
	if !errors.Is(err, services.ErrSinkWrite) {
		t.Fatalf("expected sink write failure, got %v", err)
	}

	if _, _, err := runCLI(t, []string{"extract", env.video, dir, "--mkdir"}, env.configPath); err != nil {
		t.Fatalf("extract --mkdir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_0001.jpg")); err != nil {
		t.Fatalf("expected second frame: %v", err)
	}
}

func TestRunExtractsAndPacks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", env.video, "--ext", "png"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Extracted 2 frames")
	requireContains(t, out, "Packed 2 images")
	if n := bytes.Count([]byte(out), []byte("done")); n != 1 {
		t.Fatalf("expected one completion line, got %d in %q", n, out)
	}

	if got := readFile(t, env.cfg.Paths.Output); !bytes.Equal(got, bytes.Repeat([]byte{0xff}, 16)) {
		t.Fatalf("unexpected blob % x", got)
	}
}
