package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framepack/internal/config"
	"framepack/internal/services"
)

func TestCheckWritableDir_OK(t *testing.T) {
	result := CheckWritableDir("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckWritableDir_NotExist(t *testing.T) {
	result := CheckWritableDir("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckReadableDir_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableDir("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "a", "b")
	result := CheckCreatableDir("frames", missing)
	if !result.Passed {
		t.Fatalf("expected creatable dir to pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", binDir)

	cfg := config.Default()
	cfg.Paths.FramesDir = filepath.Join(base, "frames")
	cfg.Paths.BitmapDir = cfg.Paths.FramesDir
	cfg.Paths.Output = filepath.Join(base, "out", "frames.bin")
	return &cfg
}

func TestRunAllExtract(t *testing.T) {
	cfg := testConfig(t)
	results := RunAll(cfg, StageExtract)
	if len(results) != 3 {
		t.Fatalf("expected ffmpeg, ffprobe, frames dir; got %+v", results)
	}
	if !errors.Is(Err(results), services.ErrConfiguration) {
		t.Fatal("expected missing frames dir to fail")
	}

	cfg.Extract.CreateOutputDir = true
	if err := Err(RunAll(cfg, StageExtract)); err != nil {
		t.Fatalf("expected creatable frames dir to pass, got %v", err)
	}
}

func TestRunAllPack(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.Paths.BitmapDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.Output), 0o755); err != nil {
		t.Fatal(err)
	}
	results := RunAll(cfg, StagePack)
	if len(results) != 2 {
		t.Fatalf("expected bitmap dir and output dir checks, got %+v", results)
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestRunAllMissingBinary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Extract.FFmpegBinary = "definitely-not-ffmpeg"
	cfg.Extract.CreateOutputDir = true
	err := Err(RunAll(cfg, StageExtract))
	if err == nil || !strings.Contains(err.Error(), "FFmpeg") {
		t.Fatalf("expected ffmpeg failure, got %v", err)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(nil, StagePack); results != nil {
		t.Fatalf("expected nil, got %+v", results)
	}
}
