package testsupport

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"framepack/internal/fileutil"
	"framepack/internal/frames"
	"framepack/internal/imageio"
)

// SolidImage returns a size x size opaque image filled with c.
func SolidImage(size int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// WriteFrame encodes img as frame index in dir using the format implied by
// ext, and returns the file path.
func WriteFrame(t testing.TB, dir string, index int, ext string, img image.Image) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	enc, err := imageio.NewEncoder(ext, 100)
	if err != nil {
		t.Fatalf("encoder for %s: %v", ext, err)
	}
	path := filepath.Join(dir, frames.Name(index, ext))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := enc.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

// WriteBlob writes records back to back at path.
func WriteBlob(t testing.TB, path string, records ...[]byte) {
	t.Helper()

	var data []byte
	for _, rec := range records {
		data = append(data, rec...)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		t.Fatalf("write blob %s: %v", path, err)
	}
}
