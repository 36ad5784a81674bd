// Package hclconf implements the config.Loader interface for HCL files.
package hclconf

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/cachebust/internal/config"
	"github.com/vk/cachebust/internal/ctxlog"
	"github.com/vk/cachebust/internal/schema"
)

// Loader parses HCL configuration files into the config model.
type Loader struct{}

// NewLoader creates an HCL config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and decodes the configuration file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var decoded schema.File
	if diags := gohcl.DecodeBody(file.Body, nil, &decoded); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	model, err := translate(&decoded)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}

	logger.Debug("Configuration loaded.",
		"source_root", model.SourceRoot, "output_root", model.OutputRoot,
		"exclude_count", len(model.Exclude))
	return model, nil
}
