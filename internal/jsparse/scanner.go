package jsparse

import (
	"context"
	"errors"
	"fmt"
)

// scanner walks the source bytes once, left to right. It never backtracks
// past a consumed specifier, so edge spans always refer to the original text.
type scanner struct {
	src []byte
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

// peek returns the byte at the given lookahead offset, or 0 past the end.
func (s *scanner) peek(ahead int) byte {
	if s.pos+ahead >= len(s.src) {
		return 0
	}
	return s.src[s.pos+ahead]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isQuote(c byte) bool { return c == '\'' || c == '"' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// scanWord consumes and returns the identifier starting at the current position.
func (s *scanner) scanWord() string {
	start := s.pos
	for !s.eof() && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// skipTrivia consumes whitespace and comments.
func (s *scanner) skipTrivia() {
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *scanner) skipLineComment() {
	for !s.eof() && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() {
	s.pos += 2
	for !s.eof() {
		if s.src[s.pos] == '*' && s.peek(1) == '/' {
			s.pos += 2
			return
		}
		s.pos++
	}
}

// skipString consumes a single- or double-quoted string literal, honoring
// backslash escapes. Unterminated strings end at the line break; that is the
// source file's problem, not ours.
func (s *scanner) skipString(quote byte) {
	s.pos++
	for !s.eof() {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		s.pos++
		if c == quote || c == '\n' {
			return
		}
	}
}

// skipTemplate consumes a template literal up to its closing backtick.
func (s *scanner) skipTemplate() {
	s.pos++
	for !s.eof() {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		s.pos++
		if c == '`' {
			return
		}
	}
}

// skipBraces consumes a brace-enclosed clause, e.g. an import or export name
// list, starting at '{'.
func (s *scanner) skipBraces() error {
	depth := 0
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case isQuote(c):
			s.skipString(c)
		case c == '{':
			depth++
			s.pos++
		case c == '}':
			depth--
			s.pos++
			if depth == 0 {
				return nil
			}
		default:
			s.pos++
		}
	}
	return errors.New("unexpected end of file in brace clause")
}

// skipToFrom advances past an import/export clause until the 'from' keyword
// at brace depth zero. Hitting a ';' or the end of file first means the
// statement is malformed.
func (s *scanner) skipToFrom() error {
	depth := 0
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case isQuote(c):
			s.skipString(c)
		case c == '{':
			depth++
			s.pos++
		case c == '}':
			depth--
			s.pos++
		case c == ';':
			return errors.New("import clause ended before 'from'")
		case isIdentByte(c):
			if word := s.scanWord(); word == "from" && depth == 0 {
				return nil
			}
		default:
			s.pos++
		}
	}
	return errors.New("unexpected end of file in import clause")
}

// scanImport is entered with the scanner just past the 'import' keyword. It
// handles declarations (with and without a binding clause), dynamic import()
// calls, and import.meta (which is not a module reference).
func (s *scanner) scanImport(ctx context.Context) (Edge, bool, error) {
	s.skipTrivia()
	if s.eof() {
		return Edge{}, false, errors.New("unexpected end of file after 'import'")
	}
	switch c := s.src[s.pos]; {
	case c == '(':
		s.pos++
		s.skipTrivia()
		if s.eof() || !isQuote(s.src[s.pos]) {
			// Dynamic import of a computed expression; not statically
			// analysable, leave it alone.
			return Edge{}, false, nil
		}
		return s.readSpecifier(ctx, true)
	case c == '.':
		// import.meta
		return Edge{}, false, nil
	case isQuote(c):
		// Side-effect import: import 'X'
		return s.readSpecifier(ctx, false)
	default:
		if err := s.skipToFrom(); err != nil {
			return Edge{}, false, err
		}
		s.skipTrivia()
		if s.eof() || !isQuote(s.src[s.pos]) {
			return Edge{}, false, fmt.Errorf("expected module specifier after 'from'")
		}
		return s.readSpecifier(ctx, false)
	}
}

// scanReExport is entered just past the 'export' keyword. Only re-export
// forms (export ... from 'X') reference another module; every other export
// shape is a local declaration and is skipped.
func (s *scanner) scanReExport(ctx context.Context) (Edge, bool, error) {
	s.skipTrivia()
	if s.eof() {
		return Edge{}, false, nil
	}
	switch c := s.src[s.pos]; {
	case c == '{':
		if err := s.skipBraces(); err != nil {
			return Edge{}, false, err
		}
		s.skipTrivia()
		if !s.eof() && isIdentByte(s.src[s.pos]) {
			wordStart := s.pos
			if s.scanWord() == "from" {
				s.skipTrivia()
				if s.eof() || !isQuote(s.src[s.pos]) {
					return Edge{}, false, fmt.Errorf("expected module specifier after 'from'")
				}
				return s.readSpecifier(ctx, false)
			}
			// Plain export list; let the main loop rescan the word.
			s.pos = wordStart
		}
		return Edge{}, false, nil
	case c == '*':
		s.pos++
		if err := s.skipToFrom(); err != nil {
			return Edge{}, false, err
		}
		s.skipTrivia()
		if s.eof() || !isQuote(s.src[s.pos]) {
			return Edge{}, false, fmt.Errorf("expected module specifier after 'from'")
		}
		return s.readSpecifier(ctx, false)
	default:
		// export const/let/function/class/default: a local declaration.
		return Edge{}, false, nil
	}
}

// readSpecifier is entered at the opening quote of a module specifier and
// consumes through the closing quote, recording the span between them.
func (s *scanner) readSpecifier(ctx context.Context, dynamic bool) (Edge, bool, error) {
	quote := s.src[s.pos]
	s.pos++
	start := s.pos
	for !s.eof() && s.src[s.pos] != quote {
		if s.src[s.pos] == '\n' {
			return Edge{}, false, errors.New("unterminated module specifier")
		}
		if s.src[s.pos] == '\\' {
			s.pos++
		}
		s.pos++
	}
	if s.eof() {
		return Edge{}, false, errors.New("unterminated module specifier")
	}
	end := s.pos
	s.pos++
	edge, ok := newEdge(ctx, string(s.src[start:end]), start, end, dynamic)
	return edge, ok, nil
}
