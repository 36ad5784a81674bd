// Package rewrite applies cache-busting rewrites across a module set. It
// visits modules in descending reference-level order and replaces each
// actionable import specifier with "<path>?v=<hash>", where the hash is the
// md5 digest of the imported module's final, post-rewrite content.
package rewrite

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vk/cachebust/internal/ctxlog"
	"github.com/vk/cachebust/internal/graph"
	"github.com/vk/cachebust/internal/hasher"
	"github.com/vk/cachebust/internal/jsparse"
	"github.com/vk/cachebust/internal/module"
)

// procState tracks how far the engine has taken a module.
type procState int

const (
	statePending procState = iota
	stateProcessing
	stateDone
)

// Engine rewrites import specifiers across a module set. It is single-use:
// create one per build run.
type Engine struct {
	set   *module.Set
	state map[string]procState
}

// New creates an engine over the shared module set.
func New(set *module.Set) *Engine {
	return &Engine{
		set:   set,
		state: make(map[string]procState, set.Len()),
	}
}

// Run processes every module in descending reference-level order, ties
// broken by discovery order. The ordering is a correctness requirement, not
// an optimization: an importer must observe its importee's final hash.
func (e *Engine) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	ordered := graph.ProcessingOrder(e.set)
	logger.Debug("Rewrite engine starting.", "module_count", len(ordered))

	for _, m := range ordered {
		if err := e.process(ctx, m); err != nil {
			return err
		}
	}

	logger.Debug("Rewrite engine finished.")
	return nil
}

// process applies all of one module's rewrites. Edges are patched in
// ascending original-offset order while a running delta shifts every
// subsequent span by the accumulated length difference of earlier
// replacements.
func (e *Engine) process(ctx context.Context, m *module.Module) error {
	if e.state[m.AbsPath] != statePending {
		return nil
	}
	if m.Excluded {
		e.state[m.AbsPath] = stateDone
		return nil
	}
	e.state[m.AbsPath] = stateProcessing
	defer func() { e.state[m.AbsPath] = stateDone }()

	logger := ctxlog.FromContext(ctx)

	content, err := m.Content()
	if err != nil {
		return fmt.Errorf("reading %s: %w", m.AbsPath, err)
	}
	original := content
	delta := 0

	for _, edge := range m.Edges {
		if edge.Unresolved || edge.Kind == jsparse.Bare || edge.Target == "" {
			continue
		}
		target, ok := e.set.Lookup(edge.Target)
		if !ok {
			continue
		}

		hash, err := e.hashOf(ctx, target)
		if err != nil {
			return err
		}

		replacement := edge.Path + "?v=" + hash
		start := edge.Start + delta
		end := edge.End + delta

		patched := make([]byte, 0, len(content)+len(replacement)-(end-start))
		patched = append(patched, content[:start]...)
		patched = append(patched, replacement...)
		patched = append(patched, content[end:]...)
		content = patched

		delta += len(replacement) - (edge.End - edge.Start)
		logger.Debug("Rewrote import specifier.",
			"importer", m.RelPath, "specifier", edge.Raw, "hash", hash)
	}

	if !bytes.Equal(original, content) {
		m.SetContent(content)
		m.Modified = true
	}
	return nil
}

// hashOf returns the target module's content hash, computing it at most
// once. An unprocessed target is fully processed on demand first, so the
// hash always covers post-rewrite content. The one exception is a module
// currently being processed (an import cycle): its content is hashed as it
// stands, which is still deterministic for a fixed input tree.
func (e *Engine) hashOf(ctx context.Context, target *module.Module) (string, error) {
	if hash, ok := target.Hash(); ok {
		return hash, nil
	}

	if e.state[target.AbsPath] == statePending {
		if err := e.process(ctx, target); err != nil {
			return "", err
		}
		// A cycle inside the on-demand subtree can re-enter hashOf for this
		// same target and hash it mid-process. That hash is sticky: recheck
		// the cache instead of computing a second one.
		if hash, ok := target.Hash(); ok {
			return hash, nil
		}
	}

	content, err := target.Content()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", target.AbsPath, err)
	}
	hash := hasher.Sum(content)
	target.SetHash(hash)
	return hash, nil
}
