package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/cachebust/internal/config"
	"github.com/vk/cachebust/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	model  *config.Model
}

// NewApp is the constructor for the main application. It loads and validates
// all configuration up front and panics on fatal startup problems (missing
// config file, missing source root); the entrypoint recovers the panic and
// turns it into a clean exit. Nothing has been written at that point.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := &config.Model{Extensions: config.DefaultExtensions}
	if appConfig.ConfigPath != "" {
		loaded, err := loader.Load(ctx, appConfig.ConfigPath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		model = loaded
	}

	// CLI flags override file-level settings.
	if appConfig.SourceRoot != "" {
		model.SourceRoot = appConfig.SourceRoot
	}
	if appConfig.OutputRoot != "" {
		model.OutputRoot = appConfig.OutputRoot
	}
	if len(appConfig.Exclude) > 0 {
		model.Exclude = append(model.Exclude, appConfig.Exclude...)
	}
	if appConfig.Clean {
		model.CleanOutput = true
	}

	if err := model.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}

	srcRoot, err := filepath.Abs(model.SourceRoot)
	if err != nil {
		panic(fmt.Errorf("resolving source root: %w", err))
	}
	info, err := os.Stat(srcRoot)
	if err != nil || !info.IsDir() {
		panic(fmt.Errorf("source root %s is not an existing directory", srcRoot))
	}
	model.SourceRoot = srcRoot

	if model.OutputRoot != "" {
		outRoot, err := filepath.Abs(model.OutputRoot)
		if err != nil {
			panic(fmt.Errorf("resolving output root: %w", err))
		}
		model.OutputRoot = outRoot
	}

	logger.Debug("Configuration validated.",
		"source_root", model.SourceRoot, "output_root", model.OutputRoot)

	return &App{
		outW:   outW,
		logger: logger,
		model:  model,
	}
}

// Model returns the resolved configuration. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
