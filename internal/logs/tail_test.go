package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"framepack/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "framepack.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	chunk, err := logs.Tail(context.Background(), path, logs.Options{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(chunk.Lines) != 2 || chunk.Lines[0] != "b" || chunk.Lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", chunk.Lines)
	}
	if chunk.Offset != 6 {
		t.Fatalf("expected offset 6, got %d", chunk.Offset)
	}
}

func TestTailMissingFile(t *testing.T) {
	chunk, err := logs.Tail(context.Background(), filepath.Join(t.TempDir(), "none.log"), logs.Options{Offset: -1, Limit: 5})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(chunk.Lines) != 0 || chunk.Offset != 0 {
		t.Fatalf("unexpected chunk %#v", chunk)
	}
}

func TestTailFromOffsetKeepsPartialLine(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthr")

	chunk, err := logs.Tail(context.Background(), path, logs.Options{Offset: 4})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(chunk.Lines) != 1 || chunk.Lines[0] != "two" || chunk.Offset != 8 {
		t.Fatalf("unexpected chunk %#v", chunk)
	}
}

func TestTailMatchRun(t *testing.T) {
	path := writeLog(t, "x INFO pack: start run_id=aaa\n"+
		`{"msg":"start","run_id":"bbb"}`+"\n"+
		"x INFO pack: done run_id=aaa\n")

	chunk, err := logs.Tail(context.Background(), path, logs.Options{Offset: -1, Limit: 10, Match: logs.MatchRun("aaa")})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(chunk.Lines) != 2 {
		t.Fatalf("expected 2 console lines, got %#v", chunk.Lines)
	}

	chunk, err = logs.Tail(context.Background(), path, logs.Options{Offset: -1, Limit: 10, Match: logs.MatchRun("bbb")})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(chunk.Lines) != 1 {
		t.Fatalf("expected 1 json line, got %#v", chunk.Lines)
	}
	if logs.MatchRun("  ") != nil {
		t.Fatal("blank run id should not filter")
	}
}

func TestTailFollowWaits(t *testing.T) {
	path := writeLog(t, "start\n")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	first, err := logs.Tail(ctx, path, logs.Options{Offset: -1, Limit: 1})
	if err != nil {
		t.Fatalf("initial tail: %v", err)
	}
	if len(first.Lines) != 1 {
		t.Fatalf("expected initial line, got %#v", first.Lines)
	}

	done := make(chan struct{})
	go func(offset int64) {
		defer close(done)
		chunk, err := logs.Tail(ctx, path, logs.Options{Offset: offset, Follow: true, Wait: 5 * time.Second})
		if err != nil {
			t.Errorf("follow tail error: %v", err)
		}
		if len(chunk.Lines) != 1 || chunk.Lines[0] != "later" {
			t.Errorf("unexpected follow lines: %#v", chunk.Lines)
		}
	}(first.Offset)

	time.Sleep(200 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("tail follow did not return")
	}
}
