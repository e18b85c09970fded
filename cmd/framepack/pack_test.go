package main

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"framepack/internal/config"
	"framepack/internal/services"
	"framepack/internal/testsupport"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func writeFrames(t *testing.T, dir string, colors ...color.Color) {
	t.Helper()
	for i, c := range colors {
		testsupport.WriteFrame(t, dir, i, "png", testsupport.SolidImage(8, c))
	}
}

func TestPackWritesBlobAndDone(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFrames(t, env.cfg.Paths.FramesDir, white, black, white)

	out, _, err := runCLI(t, []string{"pack", "--ext", "png"}, env.configPath)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	requireContains(t, out, "Packed 3 images")
	requireContains(t, out, "done")

	want := append(append(bytes.Repeat([]byte{0xff}, 8), make([]byte, 8)...), bytes.Repeat([]byte{0xff}, 8)...)
	if got := readFile(t, env.cfg.Paths.Output); !bytes.Equal(got, want) {
		t.Fatalf("unexpected blob % x", got)
	}
}

func TestPackTwiceDoublesOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFrames(t, env.cfg.Paths.FramesDir, white, black)

	for i := 0; i < 2; i++ {
		if _, _, err := runCLI(t, []string{"pack", "--ext", "png"}, env.configPath); err != nil {
			t.Fatalf("pack %d: %v", i, err)
		}
	}
	if got := len(readFile(t, env.cfg.Paths.Output)); got != 32 {
		t.Fatalf("expected 32 bytes after two runs, got %d", got)
	}
}

func TestPackPositionalArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "bitmaps")
	writeFrames(t, dir, black)
	output := filepath.Join(env.baseDir, "custom.bin")

	if _, _, err := runCLI(t, []string{"pack", dir, output, "--ext", "png"}, env.configPath); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if got := readFile(t, output); !bytes.Equal(got, make([]byte, 8)) {
		t.Fatalf("unexpected blob % x", got)
	}
}

func TestPackMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"pack", filepath.Join(env.baseDir, "missing")}, env.configPath)
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	if bytes.Contains([]byte(out), []byte("done")) {
		t.Fatalf("failed run printed completion: %q", out)
	}
}

func TestPackEmptyDirectoryLeavesNoOutput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"pack", "--ext", "png"}, env.configPath)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	requireContains(t, out, "No *.png files")
	requireContains(t, out, "done")
	if _, err := os.Stat(env.cfg.Paths.Output); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err %v", err)
	}
}

func TestPackThresholdFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	// Channel sum 3*200 = 600.
	writeFrames(t, env.cfg.Paths.FramesDir, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	if _, _, err := runCLI(t, []string{"pack", "--ext", "png", "--threshold", "601"}, env.configPath); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if got := readFile(t, env.cfg.Paths.Output); !bytes.Equal(got, make([]byte, 8)) {
		t.Fatalf("unexpected blob % x", got)
	}
}

func TestPackRejectsInvalidOrder(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"pack", "--order", "random"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestApplyPackFlagsThresholdFollowsLayout(t *testing.T) {
	cases := []struct {
		name string
		file string
		want int
	}{
		{"derived", "[pack]\nchannels = 3\n", 512},
		{"explicit", "[pack]\nthreshold = 384\n", 384},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("FRAMEPACK_PATHS_STATE_DIR", filepath.Join(dir, "state"))
			path := filepath.Join(dir, "framepack.toml")
			if err := os.WriteFile(path, []byte(tc.file), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, _, _, err := config.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			cmd := newPackCommand(newCommandContext(&globalFlags{}))
			if err := cmd.Flags().Set("channels", "4"); err != nil {
				t.Fatal(err)
			}
			applyPackFlags(cmd, cfg, packFlags{channels: 4})
			if err := cfg.Finalize(); err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			if cfg.Pack.Threshold != tc.want {
				t.Fatalf("threshold = %d, want %d", cfg.Pack.Threshold, tc.want)
			}
		})
	}
}
