package bitmap

import (
	"fmt"
	"image"
	"image/color"

	"framepack/internal/services"
)

const (
	DefaultWindow    = 8
	DefaultChannels  = 3
	DefaultBitDepth  = 8
	DefaultThreshold = 384
)

// Sampler holds the packing parameters.
type Sampler struct {
	// Window is the edge length of the square region read from the top-left corner.
	Window int
	// Threshold is the minimum channel sum that produces a 1 bit.
	Threshold int
	// Channels is the number of channels summed per pixel: 1 (luma), 3 (RGB), or 4 (RGBA).
	Channels int
	// BitDepth is the per-channel depth the sum is computed at: 8 or 16.
	BitDepth int
}

// DefaultSampler returns the 8x8, three-channel, 8-bit, mid-gray sampler.
func DefaultSampler() Sampler {
	return Sampler{
		Window:    DefaultWindow,
		Threshold: DefaultThreshold,
		Channels:  DefaultChannels,
		BitDepth:  DefaultBitDepth,
	}
}

// Validate checks the sampler parameters.
func (s Sampler) Validate() error {
	if s.Window < 1 {
		return services.Wrap(services.ErrConfiguration, "pack", "sampler", fmt.Sprintf("window must be positive, got %d", s.Window), nil)
	}
	switch s.Channels {
	case 1, 3, 4:
	default:
		return services.Wrap(services.ErrConfiguration, "pack", "sampler", fmt.Sprintf("channels must be 1, 3, or 4, got %d", s.Channels), nil)
	}
	switch s.BitDepth {
	case 8, 16:
	default:
		return services.Wrap(services.ErrConfiguration, "pack", "sampler", fmt.Sprintf("bit depth must be 8 or 16, got %d", s.BitDepth), nil)
	}
	if s.Threshold < 0 {
		return services.Wrap(services.ErrConfiguration, "pack", "sampler", fmt.Sprintf("threshold must be >= 0, got %d", s.Threshold), nil)
	}
	return nil
}

// RowBytes is the number of bytes one packed window row occupies.
func (s Sampler) RowBytes() int {
	return (s.Window + 7) / 8
}

// RecordSize is the number of bytes one packed image occupies.
func (s Sampler) RecordSize() int {
	return s.Window * s.RowBytes()
}

// Pack samples the top-left window of img and returns the packed rows.
func (s Sampler) Pack(img image.Image) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, services.Wrap(services.ErrDecodeFailure, "pack", "sample", "nil image", nil)
	}
	bounds := img.Bounds()
	if bounds.Dx() < s.Window || bounds.Dy() < s.Window {
		return nil, services.Wrap(services.ErrGeometry, "pack", "sample",
			fmt.Sprintf("image is %dx%d, sampling window needs %dx%d", bounds.Dx(), bounds.Dy(), s.Window, s.Window), nil)
	}
	if have := ModelChannels(img.ColorModel()); have < s.Channels {
		return nil, services.Wrap(services.ErrGeometry, "pack", "sample",
			fmt.Sprintf("image has %d channel(s), sampler expects %d", have, s.Channels), nil)
	}

	rowBytes := s.RowBytes()
	out := make([]byte, s.Window*rowBytes)
	for y := 0; y < s.Window; y++ {
		for x := 0; x < s.Window; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			if s.channelSum(c) >= s.Threshold {
				out[y*rowBytes+x/8] |= 1 << (7 - x%8)
			}
		}
	}
	return out, nil
}

// channelSum adds the non-premultiplied channel values of c at the sampler's
// bit depth.
func (s Sampler) channelSum(c color.Color) int {
	shift := uint(16 - s.BitDepth)
	if s.Channels == 1 {
		g := color.Gray16Model.Convert(c).(color.Gray16)
		return int(g.Y >> shift)
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	sum := int(n.R>>shift) + int(n.G>>shift) + int(n.B>>shift)
	if s.Channels == 4 {
		sum += int(n.A >> shift)
	}
	return sum
}

// ModelChannels reports how many channels an image color model carries.
func ModelChannels(model color.Model) int {
	switch model {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel:
		return 4
	}
	if palette, ok := model.(color.Palette); ok {
		for _, c := range palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
	}
	return 3
}
