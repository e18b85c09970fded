package main

import (
	"encoding/json"
	"strings"
	"testing"

	"framepack/internal/services"
)

func TestHistoryRecordsRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFrames(t, env.cfg.Paths.FramesDir, white)

	if _, _, err := runCLI(t, []string{"pack", "--ext", "png"}, env.configPath); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if _, _, err := runCLI(t, []string{"extract", env.video + ".missing"}, env.configPath); err == nil {
		t.Fatal("expected extract to fail")
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var rows []historyRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(rows))
	}
	failed, packed := rows[0], rows[1]
	if failed.Mode != "extract" || failed.Status != "failed" || failed.ErrorKind != services.KindSourceUnavailable {
		t.Fatalf("unexpected failed run %+v", failed)
	}
	if packed.Mode != "pack" || packed.Status != "succeeded" || packed.Frames != 1 || packed.BytesAppended != 8 {
		t.Fatalf("unexpected pack run %+v", packed)
	}

	table, _, err := runCLI(t, []string{"history", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history table: %v", err)
	}
	requireContains(t, table, "source_unavailable")
}

func TestHistoryDisabledFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFrames(t, env.cfg.Paths.FramesDir, white)

	if _, _, err := runCLI(t, []string{"--no-history", "pack", "--ext", "png"}, env.configPath); err != nil {
		t.Fatalf("pack: %v", err)
	}
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestLogsFiltersByRun(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("FRAMEPACK_LOGGING_FILE", "true")
	t.Setenv("FRAMEPACK_LOGGING_LEVEL", "info")
	writeFrames(t, env.cfg.Paths.FramesDir, white)

	for i := 0; i < 2; i++ {
		if _, _, err := runCLI(t, []string{"pack", "--ext", "png"}, env.configPath); err != nil {
			t.Fatalf("pack %d: %v", i, err)
		}
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var rows []historyRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(rows))
	}

	out, _, err = runCLI(t, []string{"logs", "--run", rows[0].ID}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "packing finished")
	requireContains(t, out, rows[0].ID)
	if strings.Contains(out, rows[1].ID) {
		t.Fatalf("logs for %s leaked into %q", rows[1].ID, out)
	}
}

func TestLogsWithoutFile(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "No log file")
}
