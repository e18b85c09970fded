package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtract()
	c.normalizePack()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.Video, err = expandPath(strings.TrimSpace(c.Paths.Video)); err != nil {
		return fmt.Errorf("paths.video: %w", err)
	}
	if strings.TrimSpace(c.Paths.FramesDir) == "" {
		c.Paths.FramesDir = defaultFramesDir
	}
	if c.Paths.FramesDir, err = expandPath(strings.TrimSpace(c.Paths.FramesDir)); err != nil {
		return fmt.Errorf("paths.frames_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BitmapDir) == "" {
		c.Paths.BitmapDir = c.Paths.FramesDir
	}
	if c.Paths.BitmapDir, err = expandPath(strings.TrimSpace(c.Paths.BitmapDir)); err != nil {
		return fmt.Errorf("paths.bitmap_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Output) == "" {
		c.Paths.Output = defaultOutput
	}
	if c.Paths.Output, err = expandPath(strings.TrimSpace(c.Paths.Output)); err != nil {
		return fmt.Errorf("paths.output: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtract() {
	c.Extract.FFmpegBinary = strings.TrimSpace(c.Extract.FFmpegBinary)
	if c.Extract.FFmpegBinary == "" {
		c.Extract.FFmpegBinary = defaultFFmpegBinary
	}
	c.Extract.FFprobeBinary = strings.TrimSpace(c.Extract.FFprobeBinary)
	if c.Extract.FFprobeBinary == "" {
		c.Extract.FFprobeBinary = defaultFFprobeBinary
	}
	c.Extract.Extension = NormalizeExtension(c.Extract.Extension)
	if c.Extract.Extension == "" {
		c.Extract.Extension = defaultExtension
	}
	if c.Extract.JPEGQuality == 0 {
		c.Extract.JPEGQuality = defaultJPEGQuality
	}
}

// The pack extension is matched case-sensitively against file names, so only
// the leading dot and surrounding whitespace are stripped.
func (c *Config) normalizePack() {
	c.Pack.Extension = strings.TrimPrefix(strings.TrimSpace(c.Pack.Extension), ".")
	if c.Pack.Extension == "" {
		c.Pack.Extension = defaultExtension
	}
	c.Pack.Order = strings.ToLower(strings.TrimSpace(c.Pack.Order))
	if c.Pack.Order == "" {
		c.Pack.Order = OrderNumeric
	}
	if c.Pack.Window == 0 {
		c.Pack.Window = defaultWindow
	}
	if c.Pack.Channels == 0 {
		c.Pack.Channels = defaultChannels
	}
	if c.Pack.BitDepth == 0 {
		c.Pack.BitDepth = defaultBitDepth
	}
	if c.Pack.Threshold == 0 {
		c.Pack.Threshold = DerivedThreshold(c.Pack.Channels, c.Pack.BitDepth)
		c.Pack.thresholdDerived = true
	}
	if c.Pack.Workers <= 0 {
		c.Pack.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeExtension lower-cases an encoder extension and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
