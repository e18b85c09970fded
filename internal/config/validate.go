package config

import (
	"fmt"

	"framepack/internal/services"
)

var supportedExtractExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
}

// Validate ensures the configuration is usable. Every failure is tagged with
// services.ErrConfiguration.
func (c *Config) Validate() error {
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validatePack(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExtract() error {
	if _, ok := supportedExtractExtensions[c.Extract.Extension]; !ok {
		return invalid("extract.extension", fmt.Sprintf("unsupported value %q (want jpg, jpeg, png, or bmp)", c.Extract.Extension))
	}
	if c.Extract.JPEGQuality < 1 || c.Extract.JPEGQuality > 100 {
		return invalid("extract.jpeg_quality", fmt.Sprintf("must be between 1 and 100, got %d", c.Extract.JPEGQuality))
	}
	if c.Extract.FrameRate < 0 {
		return invalid("extract.frame_rate", "must be >= 0")
	}
	return nil
}

func (c *Config) validatePack() error {
	if c.Pack.Window < 1 {
		return invalid("pack.window", fmt.Sprintf("must be positive, got %d", c.Pack.Window))
	}
	switch c.Pack.Channels {
	case 1, 3, 4:
	default:
		return invalid("pack.channels", fmt.Sprintf("must be 1, 3, or 4, got %d", c.Pack.Channels))
	}
	switch c.Pack.BitDepth {
	case 8, 16:
	default:
		return invalid("pack.bit_depth", fmt.Sprintf("must be 8 or 16, got %d", c.Pack.BitDepth))
	}
	maxSum := c.Pack.Channels * ((1 << c.Pack.BitDepth) - 1)
	if c.Pack.Threshold < 0 || c.Pack.Threshold > maxSum+1 {
		return invalid("pack.threshold", fmt.Sprintf("must be between 0 and %d, got %d", maxSum+1, c.Pack.Threshold))
	}
	switch c.Pack.Order {
	case OrderNumeric, OrderFilesystem:
	default:
		return invalid("pack.order", fmt.Sprintf("must be %q or %q, got %q", OrderNumeric, OrderFilesystem, c.Pack.Order))
	}
	if c.Pack.Workers > 64 {
		return invalid("pack.workers", fmt.Sprintf("must be at most 64, got %d", c.Pack.Workers))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("logging.format", fmt.Sprintf("unsupported value %q (want console or json)", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return invalid("logging.level", fmt.Sprintf("unsupported value %q", c.Logging.Level))
	}
}

func invalid(field, message string) error {
	return services.Wrap(services.ErrConfiguration, "config", field, message, nil)
}
