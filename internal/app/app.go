package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/pipewright/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	runID    string
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a registry
// populated from the given modules (the compiled-in core modules when none
// are passed). A broken job-kind declaration is a programmer error and
// panics here, before any pipeline file is read.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		if err := mod.Register(reg); err != nil {
			panic(fmt.Errorf("failed to register module: %w", err))
		}
	}
	logger.Debug("All job-kind modules registered.", "count", len(modules), "kinds", reg.Kinds())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		runID:    runID,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// RunID returns the unique identifier of this pipeline run.
func (a *App) RunID() string {
	return a.runID
}
