package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"framepack/internal/config"
	"framepack/internal/deps"
)

// CheckReadableDir verifies that path is a directory that can be listed and read.
func CheckReadableDir(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

// CheckWritableDir verifies that path is a directory new files can be created in.
func CheckWritableDir(name, path string) Result {
	return checkDirectory(name, path, unix.W_OK|unix.X_OK, "write ok")
}

// CheckCreatableDir passes when path is a writable directory, or when it is
// missing but its nearest existing ancestor is writable.
func CheckCreatableDir(name, path string) Result {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		parent := filepath.Dir(path)
		for parent != filepath.Dir(parent) {
			if _, err := os.Stat(parent); err == nil {
				break
			}
			parent = filepath.Dir(parent)
		}
		res := CheckWritableDir(name, parent)
		if res.Passed {
			res.Detail = fmt.Sprintf("%s (will be created)", path)
		}
		return res
	}
	return CheckWritableDir(name, path)
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckSystemDeps evaluates the external binaries used by frame extraction.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Extract.FFmpegBinary,
			Description: "Required for frame extraction",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Extract.FFprobeBinary,
			Description: "Required for video inspection",
		},
	}
	return deps.CheckBinaries(requirements)
}
