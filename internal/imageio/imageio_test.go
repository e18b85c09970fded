package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"framepack/internal/services"
)

func checker() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if (x/8+y/8)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestFormatForExtension(t *testing.T) {
	cases := map[string]Format{
		"jpg":   FormatJPEG,
		".JPEG": FormatJPEG,
		"png":   FormatPNG,
		"BMP":   FormatBMP,
	}
	for ext, want := range cases {
		got, err := FormatForExtension(ext)
		if err != nil || got != want {
			t.Fatalf("FormatForExtension(%q) = %q, %v", ext, got, err)
		}
	}
	if _, err := FormatForExtension("gif"); err == nil {
		t.Fatal("expected gif to be rejected")
	}
}

func TestEncodeDecodeEachFormat(t *testing.T) {
	for _, ext := range []string{"jpg", "png", "bmp"} {
		enc, err := NewEncoder(ext, 0)
		if err != nil {
			t.Fatalf("NewEncoder(%s): %v", ext, err)
		}
		var buf bytes.Buffer
		if err := enc.Encode(&buf, checker()); err != nil {
			t.Fatalf("%s encode: %v", ext, err)
		}
		img, format, err := Decode(&buf)
		if err != nil {
			t.Fatalf("%s decode: %v", ext, err)
		}
		if format != enc.Format {
			t.Fatalf("%s decoded as %s", ext, format)
		}
		if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
			t.Fatalf("%s: unexpected bounds %v", ext, img.Bounds())
		}
		r, _, _, _ := img.At(1, 1).RGBA()
		if r>>8 < 200 {
			t.Fatalf("%s: expected top-left to stay white, got %d", ext, r>>8)
		}
	}
}

func TestNewEncoderClampsQuality(t *testing.T) {
	enc, err := NewEncoder("jpg", 500)
	if err != nil {
		t.Fatal(err)
	}
	if enc.Quality != DefaultJPEGQuality {
		t.Fatalf("expected default quality, got %d", enc.Quality)
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := DecodeFile(filepath.Join(dir, "missing.jpg")); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	junk := filepath.Join(dir, "frame_0000.jpg")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFile(junk); !errors.Is(err, services.ErrDecodeFailure) {
		t.Fatalf("expected decode failure, got %v", err)
	}
	truncated := filepath.Join(dir, "frame_0001.jpg")
	if err := os.WriteFile(truncated, []byte{0xFF, 0xD8, 0xFF}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFile(truncated); !errors.Is(err, services.ErrDecodeFailure) {
		t.Fatalf("expected decode failure for truncated jpeg, got %v", err)
	}
}
