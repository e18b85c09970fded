package extract

import (
	"context"
	"image"
)

// FrameSource yields decoded frames in decode order. Next returns io.EOF once
// the stream is exhausted; any other error means a frame could not be decoded.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}
