package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"framepack/internal/config"
	"framepack/internal/deps"
	"framepack/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Stage names accepted by RunAll.
const (
	StageExtract = "extract"
	StagePack    = "pack"
	StageRun     = "run"
)

// RunAll executes the directory and binary checks needed by stage.
func RunAll(cfg *config.Config, stage string) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result

	if stage == StageExtract || stage == StageRun {
		for _, status := range CheckSystemDeps(cfg) {
			results = append(results, fromStatus(status))
		}
		if cfg.Extract.CreateOutputDir {
			results = append(results, CheckCreatableDir("Frames directory", cfg.Paths.FramesDir))
		} else {
			results = append(results, CheckWritableDir("Frames directory", cfg.Paths.FramesDir))
		}
	}

	if stage == StagePack {
		results = append(results, CheckReadableDir("Bitmap directory", cfg.Paths.BitmapDir))
	}
	if stage == StagePack || stage == StageRun {
		results = append(results, CheckWritableDir("Output directory", outputDir(cfg.Paths.Output)))
	}
	return results
}

// Err folds failed results into a single classified error, or nil when every
// check passed.
func Err(results []Result) error {
	var failed []string
	for _, res := range results {
		if !res.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", res.Name, res.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "checks failed", strings.Join(failed, "; "), nil)
}

func fromStatus(status deps.Status) Result {
	res := Result{Name: status.Name, Passed: status.Available || status.Optional}
	switch {
	case status.Available:
		res.Detail = status.Path
	case status.Detail != "":
		res.Detail = status.Detail
	default:
		res.Detail = "unavailable"
	}
	return res
}

func outputDir(output string) string {
	if strings.TrimSpace(output) == "" {
		return ""
	}
	return filepath.Dir(output)
}
