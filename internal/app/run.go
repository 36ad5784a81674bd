package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/cachebust/internal/ctxlog"
	"github.com/vk/cachebust/internal/emit"
	"github.com/vk/cachebust/internal/fsutil"
	"github.com/vk/cachebust/internal/graph"
	"github.com/vk/cachebust/internal/module"
	"github.com/vk/cachebust/internal/rewrite"
)

// BuildResult summarizes one file's outcome.
type BuildResult struct {
	Path     string // absolute output path
	RelPath  string // path relative to the source root
	Modified bool
}

// Run executes the full build: discover modules, construct the dependency
// graph, rewrite import specifiers in reference-level order, and emit the
// tree. It returns a per-file summary.
func (a *App) Run(ctx context.Context) ([]BuildResult, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	matcher, err := fsutil.NewMatcher(a.model.Exclude)
	if err != nil {
		return nil, err
	}

	files, err := fsutil.FindFilesByExtensions(a.model.SourceRoot, a.model.Extensions)
	if err != nil {
		return nil, fmt.Errorf("walking source tree: %w", err)
	}
	a.logger.Debug("Source tree walked.", "file_count", len(files))

	set := module.NewSet()
	for _, abs := range files {
		rel, err := filepath.Rel(a.model.SourceRoot, abs)
		if err != nil {
			return nil, fmt.Errorf("relativizing %s: %w", abs, err)
		}
		outPath := abs
		if a.model.OutputRoot != "" {
			outPath = filepath.Join(a.model.OutputRoot, rel)
		}
		set.Add(&module.Module{
			AbsPath:  abs,
			RelPath:  rel,
			OutPath:  outPath,
			Excluded: matcher.Matches(rel),
		})
	}

	a.logger.Debug("Building dependency graph...")
	if err := graph.Build(ctx, set, a.model.SourceRoot); err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "module_count", set.Len())

	if err := rewrite.New(set).Run(ctx); err != nil {
		return nil, fmt.Errorf("rewrite failed: %w", err)
	}

	if err := emit.New(a.model.OutputRoot, a.model.CleanOutput).Emit(ctx, set); err != nil {
		return nil, fmt.Errorf("emit failed: %w", err)
	}

	results := make([]BuildResult, 0, set.Len())
	modified := 0
	for _, m := range set.All() {
		if m.Modified {
			modified++
		}
		results = append(results, BuildResult{
			Path:     m.OutPath,
			RelPath:  m.RelPath,
			Modified: m.Modified,
		})
	}
	a.logger.Info("Build finished.", "modules", set.Len(), "rewritten", modified)

	a.logger.Debug("App.Run method finished.")
	return results, nil
}
