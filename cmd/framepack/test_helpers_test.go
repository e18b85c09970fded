package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framepack/internal/config"
	"framepack/internal/testsupport"
)

const stubProbeJSON = `{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","pix_fmt":"yuv420p","width":8,"height":8,"r_frame_rate":"25/1","avg_frame_rate":"25/1","nb_frames":"2"}],"format":{"duration":"0.08","size":"1024"}}`

// The decoder asks for compact stream listings; inspect video asks for JSON.
const stubProbeCompact = `stream|index=0|codec_name=h264|codec_type=video|width=8|height=8|pix_fmt=yuv420p|r_frame_rate=25/1|avg_frame_rate=25/1|duration=0.080000|nb_frames=2`

const stubFFprobe = `case "$*" in
*"-select_streams a"*) exit 0 ;;
*compact*) printf '%s\n' '` + stubProbeCompact + `' ;;
*) printf '%s' '` + stubProbeJSON + `' ;;
esac`

// Two 8x8 RGBA frames, every byte 0xff.
const stubFFmpegWhite = `if [ "$1" = "-version" ]; then echo 'ffmpeg version stub'; exit 0; fi
head -c 512 /dev/zero | tr '\000' '\377'`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	video      string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("PATH", os.Getenv("PATH"))

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	cfg.Extract.FFprobeBinary = writeStub(t, binDir, "ffprobe", stubFFprobe)
	cfg.Extract.FFmpegBinary = writeStub(t, binDir, "ffmpeg", stubFFmpegWhite)

	video := filepath.Join(base, "clip.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	configPath := filepath.Join(base, "framepack.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, video: video}
}

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nframes_dir = %q\noutput = %q\nstate_dir = %q\n\n[extract]\nffmpeg_binary = %q\nffprobe_binary = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.FramesDir,
		cfg.Paths.Output,
		cfg.Paths.StateDir,
		cfg.Extract.FFmpegBinary,
		cfg.Extract.FFprobeBinary,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
