package config

const (
	defaultFramesDir        = "frames"
	defaultOutput           = "frames.bin"
	defaultStateDirFallback = "~/.local/state/framepack"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultExtension        = "jpg"
	defaultJPEGQuality      = 95
	defaultWindow           = 8
	defaultChannels         = 3
	defaultBitDepth         = 8
	defaultWorkers          = 1
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	// OrderNumeric sorts frame files by the index embedded in their names.
	OrderNumeric = "numeric"
	// OrderFilesystem keeps directory listing order.
	OrderFilesystem = "filesystem"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			FramesDir: defaultFramesDir,
			Output:    defaultOutput,
			StateDir:  defaultStateDir(),
		},
		Extract: Extract{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Extension:     defaultExtension,
			JPEGQuality:   defaultJPEGQuality,
		},
		Pack: Pack{
			Extension: defaultExtension,
			Window:    defaultWindow,
			Channels:  defaultChannels,
			BitDepth:  defaultBitDepth,
			Order:     OrderNumeric,
			Workers:   defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}

// DerivedThreshold returns the mid-gray channel sum for the given layout:
// channels * 2^(bitDepth-1). For three 8-bit channels this is 384.
func DerivedThreshold(channels, bitDepth int) int {
	if channels <= 0 || bitDepth <= 0 {
		return 0
	}
	return channels * (1 << (bitDepth - 1))
}
