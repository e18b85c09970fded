package blob

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"

	"framepack/internal/services"
)

func TestStatReportsTrailingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	if err := os.WriteFile(path, make([]byte, 19), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := Stat(path, 8)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Records != 2 || info.Trailing != 3 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestStatMissing(t *testing.T) {
	if _, err := Stat(filepath.Join(t.TempDir(), "none.bin"), 8); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestReadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	first := bytes.Repeat([]byte{0xAA}, 8)
	second := bytes.Repeat([]byte{0x55}, 8)
	appendAll(t, path, first, second)

	got, err := ReadRecord(path, 8, 1)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Fatalf("got % x, want % x", got, second)
	}
	if _, err := ReadRecord(path, 8, 2); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected out-of-range error, got %v", err)
	}
	if _, err := ReadRecord(path, 8, -1); err == nil {
		t.Fatal("expected negative index to fail")
	}
}

func TestExportLZ4RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "out.bin")
	payload := bytes.Repeat([]byte{0, 0xFF, 0x80, 0x01, 0, 0, 0, 0}, 512)
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out.bin.lz4")
	res, err := ExportLZ4(src, dst)
	if err != nil {
		t.Fatalf("ExportLZ4: %v", err)
	}
	if res.InputBytes != int64(len(payload)) {
		t.Fatalf("InputBytes = %d", res.InputBytes)
	}
	if res.OutputBytes <= 0 || res.OutputBytes >= res.InputBytes {
		t.Fatalf("expected compression, got %d -> %d", res.InputBytes, res.OutputBytes)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatal("decompressed payload differs")
	}
}

func TestExportLZ4MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportLZ4(filepath.Join(dir, "none.bin"), filepath.Join(dir, "x.lz4"))
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}
