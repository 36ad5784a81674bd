package config

import (
	"context"
	"errors"
)

// DefaultExtensions are the file extensions scanned when the config names none.
var DefaultExtensions = []string{".js", ".mjs"}

// Model is the unified representation of one build run's configuration.
type Model struct {
	// SourceRoot is the directory whose module tree gets processed. Required.
	SourceRoot string

	// OutputRoot receives the emitted tree. Empty means rewrite in place.
	OutputRoot string

	// Extensions selects which files count as source modules.
	Extensions []string

	// Exclude holds doublestar glob patterns, relative to SourceRoot, for
	// files that never participate in rewriting or hashing.
	Exclude []string

	// CleanOutput removes OutputRoot before emitting. Ignored for in-place runs.
	CleanOutput bool
}

// Validate checks the model for structural problems that must stop the run
// before any file is written.
func (m *Model) Validate() error {
	if m.SourceRoot == "" {
		return errors.New("source root is required")
	}
	if len(m.Extensions) == 0 {
		return errors.New("at least one source extension is required")
	}
	return nil
}

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}
