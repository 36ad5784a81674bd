// Package jsparse extracts static module references from JavaScript source
// text. It is a lightweight byte scanner, not a full parser: it understands
// just enough syntax (comments, string and template literals, import/export
// clauses) to locate every specifier together with its exact byte span, which
// the rewrite engine needs for offset-safe in-place patching.
package jsparse

import (
	"context"
	"net/url"
	"strings"

	"github.com/vk/cachebust/internal/ctxlog"
)

// Kind classifies an import specifier by its path syntax.
type Kind int

const (
	// Relative specifiers start with "./" or "../".
	Relative Kind = iota
	// Absolute specifiers start with "/".
	Absolute
	// Bare specifiers name a package ("react", "lodash/map"). They are
	// never rewritten.
	Bare
)

// String returns a human-readable name for the kind, used in log output.
func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	default:
		return "bare"
	}
}

// Edge is one static module reference found in a source file. Start and End
// are byte offsets of the specifier text between its quotes, relative to the
// source as it was at extraction time.
type Edge struct {
	Raw     string // specifier exactly as written, query included
	Path    string // specifier with any query string stripped
	Version string // value of a pre-existing ?v= query, "" if none
	Kind    Kind
	Start   int
	End     int
	Dynamic bool // true for import('X')
}

// Extract scans src and returns every static module reference in source
// order: import declarations, bare side-effect imports, dynamic import()
// calls with a literal argument, and re-export (export ... from) forms.
//
// A malformed import or export statement makes the whole file unparsable and
// returns an error; callers treat that as a local failure and process the
// file as import-free. Individual specifiers that carry no path component or
// an unparsable query string are skipped with a warning instead.
func Extract(ctx context.Context, src []byte) ([]Edge, error) {
	s := &scanner{src: src}
	var edges []Edge
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case c == '\'' || c == '"':
			s.skipString(c)
		case c == '`':
			s.skipTemplate()
		case isIdentByte(c):
			start := s.pos
			word := s.scanWord()
			if start > 0 && s.src[start-1] == '.' {
				continue // property access, e.g. foo.import
			}
			var (
				edge Edge
				ok   bool
				err  error
			)
			switch word {
			case "import":
				edge, ok, err = s.scanImport(ctx)
			case "export":
				edge, ok, err = s.scanReExport(ctx)
			default:
				continue
			}
			if err != nil {
				return nil, err
			}
			if ok {
				edges = append(edges, edge)
			}
		default:
			s.pos++
		}
	}
	return edges, nil
}

// newEdge builds an Edge from a raw specifier, splitting off any query
// string. Specifiers that cannot participate in rewriting are dropped with a
// warning; they must never abort the scan.
func newEdge(ctx context.Context, raw string, start, end int, dynamic bool) (Edge, bool) {
	logger := ctxlog.FromContext(ctx)
	path := raw
	version := ""
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		path = raw[:i]
		values, err := url.ParseQuery(raw[i+1:])
		if err != nil {
			logger.Warn("Skipping specifier with unparsable query string.", "specifier", raw)
			return Edge{}, false
		}
		version = values.Get("v")
	}
	if path == "" {
		logger.Warn("Skipping specifier with no path component.", "specifier", raw)
		return Edge{}, false
	}
	return Edge{
		Raw:     raw,
		Path:    path,
		Version: version,
		Kind:    classify(path),
		Start:   start,
		End:     end,
		Dynamic: dynamic,
	}, true
}

// classify determines the specifier kind from its leading characters.
func classify(path string) Kind {
	switch {
	case strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../"):
		return Relative
	case strings.HasPrefix(path, "/"):
		return Absolute
	default:
		return Bare
	}
}
