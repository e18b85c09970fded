// Package imageio decodes and encodes frame images by file extension.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/sergeymakinen/go-bmp"

	"framepack/internal/services"
)

// Format identifies an image container.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
)

// DefaultJPEGQuality matches the encoder quality used when none is configured.
const DefaultJPEGQuality = 95

// FormatForExtension maps a file extension (with or without the leading dot,
// any case) to its format.
func FormatForExtension(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", fmt.Errorf("unsupported image extension %q", ext)
}

// Encoder writes images in one format.
type Encoder struct {
	Format  Format
	Quality int
}

// NewEncoder returns the encoder for ext. Quality only applies to JPEG.
func NewEncoder(ext string, quality int) (Encoder, error) {
	format, err := FormatForExtension(ext)
	if err != nil {
		return Encoder{}, err
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return Encoder{Format: format, Quality: quality}, nil
}

// Encode writes img to w.
func (e Encoder) Encode(w io.Writer, img image.Image) error {
	switch e.Format {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: e.Quality})
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format %q", e.Format)
}

// Decode reads an image, choosing the decoder from the content.
func Decode(r io.Reader) (image.Image, Format, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil {
		return nil, "", err
	}
	switch {
	case magic[0] == 0xFF && magic[1] == 0xD8:
		img, err := jpeg.Decode(br)
		return img, FormatJPEG, err
	case magic[0] == 0x89 && magic[1] == 'P':
		img, err := png.Decode(br)
		return img, FormatPNG, err
	case magic[0] == 'B' && magic[1] == 'M':
		img, err := bmp.Decode(br)
		return img, FormatBMP, err
	}
	return nil, "", fmt.Errorf("unrecognized image header % x", magic)
}

// DecodeFile opens and decodes the image at path. Open failures are source
// errors; undecodable content is a decode failure.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "pack", "open image", path, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, services.Wrap(services.ErrDecodeFailure, "pack", "decode image", path, err)
	}
	return img, nil
}
