package graph

import (
	"context"
	"fmt"

	"github.com/vk/cachebust/internal/ctxlog"
	"github.com/vk/cachebust/internal/jsparse"
	"github.com/vk/cachebust/internal/module"
)

// Build constructs the complete dependency graph for the given module set.
// srcRoot anchors absolute ("/x.js") specifiers.
//
// Per-file parse failures and unresolvable edges are logged and skipped;
// only I/O errors abort the build.
func Build(ctx context.Context, set *module.Set, srcRoot string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "module_count", set.Len())

	// First pass: extract every module's import edges from its source text.
	if err := extractEdges(ctx, set); err != nil {
		return err
	}
	logger.Debug("Build: Edge extraction complete.")

	// Second pass: resolve edge specifiers to descriptors and record
	// reverse edges.
	linkEdges(ctx, set, srcRoot)
	logger.Debug("Build: Edge linking complete.")

	// Third pass: assign reference levels. Terminates on cyclic graphs.
	assignLevels(ctx, set)
	logger.Debug("Build: Level assignment complete.")

	return nil
}

// extractEdges populates each non-excluded module's edge list. A file whose
// import syntax cannot be parsed is treated as import-free: it will be
// copied unmodified, and the failure is a warning, not an abort.
func extractEdges(ctx context.Context, set *module.Set) error {
	logger := ctxlog.FromContext(ctx)
	for _, m := range set.All() {
		if m.Excluded {
			logger.Debug("Skipping excluded module.", "path", m.RelPath)
			continue
		}
		content, err := m.Content()
		if err != nil {
			return fmt.Errorf("reading %s: %w", m.AbsPath, err)
		}
		parsed, err := jsparse.Extract(ctx, content)
		if err != nil {
			logger.Warn("Unparsable import syntax, copying file unmodified.",
				"path", m.RelPath, "error", err)
			m.Edges = nil
			continue
		}
		for _, e := range parsed {
			m.Edges = append(m.Edges, &module.Edge{Edge: e})
		}
	}
	return nil
}
