package graph

import (
	"context"
	"log/slog"

	"github.com/vk/cachebust/internal/ctxlog"
	"github.com/vk/cachebust/internal/module"
)

// leveler holds the traversal state for one level-assignment run.
type leveler struct {
	set *module.Set
	// inStack marks modules on the current recursion path. Cycles are cut
	// here: a module already on the path has its level raised but is not
	// descended into again, which is what makes the propagation terminate.
	inStack map[string]bool
	// done marks modules whose subtree has been fully propagated at least
	// once; they are revisited only when an incoming level raises theirs.
	done map[string]bool
}

// assignLevels computes each module's reference level by depth-first
// propagation: an importer pushes level+1 into every module it imports, so
// an importee always ends up strictly above every importer that reaches it
// (cycles excepted). Sorting by descending level then guarantees importees
// are processed before their importers.
func assignLevels(ctx context.Context, set *module.Set) {
	logger := ctxlog.FromContext(ctx)
	l := &leveler{
		set:     set,
		inStack: make(map[string]bool),
		done:    make(map[string]bool),
	}
	for _, m := range set.All() {
		if len(m.Edges) == 0 {
			continue
		}
		l.visit(m, 0)
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		for _, m := range set.All() {
			logger.Debug("Assigned reference level.", "path", m.RelPath, "level", m.Level)
		}
	}
}

// visit raises m's level to at least incoming and recurses into its import
// targets with level+1. Recursion happens only when new information arrived
// (the level increased or the module was never expanded), never into a
// module already on the current path.
func (l *leveler) visit(m *module.Module, incoming int) {
	if l.inStack[m.AbsPath] {
		m.RaiseLevel(incoming)
		return
	}
	raised := m.RaiseLevel(incoming)
	if l.done[m.AbsPath] && !raised {
		return
	}

	l.inStack[m.AbsPath] = true
	next := m.Level + 1
	for _, e := range m.Edges {
		if e.Unresolved || e.Target == "" {
			continue
		}
		if e.Target == m.AbsPath {
			continue // self-import must not feed back into its own level
		}
		if target, ok := l.set.Lookup(e.Target); ok {
			l.visit(target, next)
		}
	}
	delete(l.inStack, m.AbsPath)
	l.done[m.AbsPath] = true
}
