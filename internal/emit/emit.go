// Package emit writes final module content to its output location. It is a
// side-effect-only stage: directory creation, optional output cleanup, and
// file writes, with no transformation logic.
package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/cachebust/internal/ctxlog"
	"github.com/vk/cachebust/internal/module"
)

// Writer emits a module set. With an output root every module is written
// under it, preserving the source-relative directory structure. Without one
// the build rewrites in place, and only modified files are touched.
type Writer struct {
	outputRoot string
	clean      bool
}

// New creates a Writer. outputRoot may be empty for in-place rewriting;
// clean is only honored when an output root is set.
func New(outputRoot string, clean bool) *Writer {
	return &Writer{outputRoot: outputRoot, clean: clean}
}

// Emit writes every module's final bytes. The first write failure aborts the
// run; files already written stay written (no rollback).
func (w *Writer) Emit(ctx context.Context, set *module.Set) error {
	logger := ctxlog.FromContext(ctx)

	if w.outputRoot != "" && w.clean {
		logger.Debug("Cleaning output root.", "path", w.outputRoot)
		if err := os.RemoveAll(w.outputRoot); err != nil {
			return fmt.Errorf("cleaning output root %s: %w", w.outputRoot, err)
		}
	}

	written := 0
	for _, m := range set.All() {
		if w.outputRoot == "" && !m.Modified {
			// In-place build: an untouched file needs no write at all.
			continue
		}
		content, err := m.Content()
		if err != nil {
			return fmt.Errorf("reading %s: %w", m.AbsPath, err)
		}
		if err := os.MkdirAll(filepath.Dir(m.OutPath), 0o755); err != nil {
			return fmt.Errorf("creating output directory for %s: %w", m.OutPath, err)
		}
		if err := os.WriteFile(m.OutPath, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", m.OutPath, err)
		}
		written++
		logger.Debug("Emitted module.", "path", m.OutPath, "modified", m.Modified)
	}

	logger.Debug("Emit stage finished.", "written", written)
	return nil
}
