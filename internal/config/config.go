package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvPrefix prefixes every environment override, e.g. FRAMEPACK_PACK_THRESHOLD.
const EnvPrefix = "FRAMEPACK_"

// Paths contains the input and output locations for both stages.
type Paths struct {
	Video     string `toml:"video" env:"VIDEO"`
	FramesDir string `toml:"frames_dir" env:"FRAMES_DIR"`
	BitmapDir string `toml:"bitmap_dir" env:"BITMAP_DIR"`
	Output    string `toml:"output" env:"OUTPUT"`
	StateDir  string `toml:"state_dir" env:"STATE_DIR"`
}

// Extract contains configuration for the frame extractor.
type Extract struct {
	FFmpegBinary         string `toml:"ffmpeg_binary" env:"FFMPEG_BINARY"`
	FFprobeBinary        string `toml:"ffprobe_binary" env:"FFPROBE_BINARY"`
	Extension            string `toml:"extension" env:"EXTENSION"`
	JPEGQuality          int    `toml:"jpeg_quality" env:"JPEG_QUALITY"`
	FrameRate            int    `toml:"frame_rate" env:"FRAME_RATE"`
	CreateOutputDir      bool   `toml:"create_output_dir" env:"CREATE_OUTPUT_DIR"`
	TolerateDecodeErrors bool   `toml:"tolerate_decode_errors" env:"TOLERATE_DECODE_ERRORS"`
}

// Pack contains configuration for the bitmap packer.
type Pack struct {
	Extension string `toml:"extension" env:"EXTENSION"`
	// Window is the edge length of the square sampling window anchored at the
	// top-left corner of every image.
	Window int `toml:"window" env:"WINDOW"`
	// Threshold is the minimum channel sum for a pixel to become a 1 bit.
	// Zero derives it from Channels and BitDepth (mid-gray).
	Threshold int    `toml:"threshold" env:"THRESHOLD"`
	Channels  int    `toml:"channels" env:"CHANNELS"`
	BitDepth  int    `toml:"bit_depth" env:"BIT_DEPTH"`
	Order     string `toml:"order" env:"ORDER"`
	Workers   int    `toml:"workers" env:"WORKERS"`

	thresholdDerived bool
}

// ThresholdDerived reports whether Threshold was filled in from the channel
// layout rather than set by the config file or environment.
func (p *Pack) ThresholdDerived() bool {
	return p.thresholdDerived
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"FORMAT"`
	Level  string `toml:"level" env:"LEVEL"`
	File   bool   `toml:"file" env:"FILE"`
}

// History contains configuration for the run ledger.
type History struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// Config encapsulates all configuration values for framepack.
//
// Configuration sections by subsystem:
//   - Paths: video input, frame directory, bitmap directory, output blob, state
//   - Extract: ffmpeg binaries and still-image encoding
//   - Pack: sampling window, threshold, channel layout, ordering
//   - Logging: log format, level, and optional log file
//   - History: SQLite run ledger
type Config struct {
	Paths   Paths   `toml:"paths" envPrefix:"PATHS_"`
	Extract Extract `toml:"extract" envPrefix:"EXTRACT_"`
	Pack    Pack    `toml:"pack" envPrefix:"PACK_"`
	Logging Logging `toml:"logging" envPrefix:"LOGGING_"`
	History History `toml:"history" envPrefix:"HISTORY_"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/framepack/config.toml")
}

// Load locates, parses, and validates a configuration file, then applies
// FRAMEPACK_* environment overrides. The returned config has all path fields
// expanded and derived values filled in.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", false, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates the config. Callers that mutate a loaded
// config (for example from CLI flags) must call it again.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("framepack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureStateDir creates the directory holding the history database and log file.
func (c *Config) EnsureStateDir() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// HistoryPath returns the SQLite run ledger location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the log file location used when logging.file is enabled.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "framepack.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "framepack")
	}
	return defaultStateDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
