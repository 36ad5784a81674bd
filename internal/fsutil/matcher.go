package fsutil

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher reports whether a path, given relative to the source root, matches
// any of a fixed set of doublestar glob patterns (e.g. "vendor/**").
type Matcher struct {
	patterns []string
}

// NewMatcher validates all patterns eagerly so an invalid glob fails at
// construction instead of silently never matching.
func NewMatcher(patterns []string) (*Matcher, error) {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return &Matcher{patterns: patterns}, nil
}

// Matches reports whether relPath matches any configured pattern. Paths are
// normalised to forward slashes so patterns behave the same on every OS.
func (m *Matcher) Matches(relPath string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pat := range m.patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}
