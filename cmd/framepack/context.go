package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"framepack/internal/config"
	"framepack/internal/history"
	"framepack/internal/logging"
	"framepack/internal/services"
)

type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
	noHistory bool
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = level
		}
		if format := strings.TrimSpace(c.flags.logFormat); format != "" {
			cfg.Logging.Format = format
		}
		if err := cfg.Finalize(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) historyEnabled() bool {
	if c.flags.noHistory || c.config == nil {
		return false
	}
	return c.config.History.Enabled
}

// runRecorder tracks one ledger row. A nil store turns every call into a no-op.
type runRecorder struct {
	store  *history.Store
	id     string
	logger *slog.Logger
}

// beginRun tags ctx with a fresh run ID and opens a history row for it.
// Ledger failures are logged and never fail the run.
func (c *commandContext) beginRun(ctx context.Context, mode history.Mode, source, destination string) (context.Context, *runRecorder) {
	logger := c.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	id := uuid.NewString()
	ctx = services.WithRunID(ctx, id)
	ctx = services.WithStage(ctx, string(mode))
	rec := &runRecorder{id: id, logger: logging.WithContext(ctx, logger)}
	if !c.historyEnabled() {
		return ctx, rec
	}

	if err := c.config.EnsureStateDir(); err != nil {
		rec.logger.Warn("history unavailable", logging.Error(err))
		return ctx, rec
	}
	store, err := history.Open(c.config.HistoryPath())
	if err != nil {
		rec.logger.Warn("history unavailable", logging.Error(err))
		return ctx, rec
	}
	if _, err := store.Begin(ctx, history.Run{ID: id, Mode: mode, Source: source, Destination: destination}); err != nil {
		rec.logger.Warn("history begin failed", logging.Error(err))
		_ = store.Close()
		return ctx, rec
	}
	rec.store = store
	return ctx, rec
}

func (r *runRecorder) finish(ctx context.Context, outcome history.Outcome) {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Finish(context.WithoutCancel(ctx), r.id, outcome); err != nil {
		r.logger.Warn("history finish failed", logging.Error(err))
	}
	_ = r.store.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
