package graph

import (
	"context"
	"path/filepath"

	"github.com/vk/cachebust/internal/ctxlog"
	"github.com/vk/cachebust/internal/jsparse"
	"github.com/vk/cachebust/internal/module"
)

// linkEdges resolves every actionable edge to its target descriptor and
// registers the importer on the target's reverse-edge list. Edges that point
// at nothing, at something outside the tree, or at an excluded file are
// marked unresolved and skipped during rewriting.
func linkEdges(ctx context.Context, set *module.Set, srcRoot string) {
	logger := ctxlog.FromContext(ctx)
	for _, m := range set.All() {
		for _, e := range m.Edges {
			if e.Kind == jsparse.Bare {
				continue // package imports are never actionable
			}
			target := resolveSpecifier(m.AbsPath, srcRoot, e.Path, e.Kind)
			e.Target = target

			targetMod, found := set.Lookup(target)
			if !found {
				e.Unresolved = true
				logger.Warn("Import does not resolve to a discovered module, leaving as-is.",
					"importer", m.RelPath, "specifier", e.Raw)
				continue
			}
			if targetMod.Excluded {
				e.Unresolved = true
				logger.Debug("Import points at an excluded file, leaving as-is.",
					"importer", m.RelPath, "specifier", e.Raw)
				continue
			}
			targetMod.AddImporter(m.AbsPath)
			logger.Debug("Linked import edge.", "from", m.RelPath, "to", targetMod.RelPath)
		}
	}
}

// resolveSpecifier turns a relative or absolute specifier into a normalized
// absolute file path. Relative specifiers resolve against the importer's
// directory, absolute ones against the source root.
func resolveSpecifier(importerAbs, srcRoot, specPath string, kind jsparse.Kind) string {
	if kind == jsparse.Absolute {
		return filepath.Clean(filepath.Join(srcRoot, filepath.FromSlash(specPath)))
	}
	return filepath.Clean(filepath.Join(filepath.Dir(importerAbs), filepath.FromSlash(specPath)))
}
