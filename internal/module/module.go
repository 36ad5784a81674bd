// Package module defines the per-file build records that every pipeline
// stage shares: the module descriptor, its import edges, and the ordered set
// keyed by absolute path.
package module

import (
	"os"

	"github.com/vk/cachebust/internal/jsparse"
)

// Edge is a single import reference from one module to another. It carries
// the extractor's positional data plus the resolution outcome filled in by
// the graph linker.
type Edge struct {
	jsparse.Edge

	// Target is the resolved absolute path of the imported module. Empty
	// until the link pass runs, and left empty for bare specifiers.
	Target string

	// Unresolved marks edges that point outside the tree, at an excluded
	// file, or at nothing at all. They are skipped during rewriting.
	Unresolved bool
}

// Module is the per-file build record. Descriptors are created once at
// discovery time and mutated in place as hashing and rewriting proceed; they
// are discarded after the emit stage writes their final content.
type Module struct {
	AbsPath string // unique key
	RelPath string // relative to the source root
	OutPath string // where the emit stage writes the final bytes

	// Edges holds outgoing references in order of appearance in the source
	// text. Order matters: offset-safe rewriting applies them front to back.
	Edges []*Edge

	// Importers holds the absolute paths of modules importing this one,
	// deduplicated, in link order.
	Importers []string

	// Level is the reference level. It only ever increases; see RaiseLevel.
	Level int

	// Excluded modules never participate in rewriting or hashing and are
	// emitted byte-identical.
	Excluded bool

	// Modified reports whether the final content differs from the source.
	Modified bool

	content []byte
	loaded  bool
	hash    string
	hashed  bool
}

// Content returns the module's current text, reading it from AbsPath on
// first use. Read failures are fatal to the run, so callers propagate them.
func (m *Module) Content() ([]byte, error) {
	if m.loaded {
		return m.content, nil
	}
	data, err := os.ReadFile(m.AbsPath)
	if err != nil {
		return nil, err
	}
	m.content = data
	m.loaded = true
	return m.content, nil
}

// SetContent replaces the module's current text, e.g. after a rewrite pass.
func (m *Module) SetContent(content []byte) {
	m.content = content
	m.loaded = true
}

// Hash returns the cached content hash, if one has been computed.
func (m *Module) Hash() (string, bool) {
	return m.hash, m.hashed
}

// SetHash records the content hash. A module is hashed at most once per run;
// recording a second hash is a sequencing bug in the caller.
func (m *Module) SetHash(hash string) {
	if m.hashed {
		panic("module: hash already set for " + m.AbsPath)
	}
	m.hash = hash
	m.hashed = true
}

// AddImporter registers the absolute path of a module importing this one.
// Duplicate registrations are ignored.
func (m *Module) AddImporter(absPath string) {
	for _, existing := range m.Importers {
		if existing == absPath {
			return
		}
	}
	m.Importers = append(m.Importers, absPath)
}

// RaiseLevel lifts the module's reference level to the given value and
// reports whether it actually increased. Levels never go down.
func (m *Module) RaiseLevel(level int) bool {
	if level > m.Level {
		m.Level = level
		return true
	}
	return false
}
