package graph

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/cachebust/internal/module"
)

// buildSet writes the given files under a temp root, creates descriptors in
// map iteration-independent (sorted) discovery order, and runs Build.
func buildSet(t *testing.T, files map[string]string, excluded ...string) (*module.Set, string) {
	t.Helper()
	root := t.TempDir()

	isExcluded := make(map[string]bool, len(excluded))
	for _, rel := range excluded {
		isExcluded[rel] = true
	}

	var rels []string
	for rel := range files {
		rels = append(rels, rel)
	}
	// Deterministic discovery order, like the lexical tree walk.
	sort.Strings(rels)

	set := module.NewSet()
	for _, rel := range rels {
		abs := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(files[rel]), 0o644))
		set.Add(&module.Module{
			AbsPath:  abs,
			RelPath:  rel,
			Excluded: isExcluded[rel],
		})
	}

	require.NoError(t, Build(context.Background(), set, root))
	return set, root
}

func lookup(t *testing.T, set *module.Set, root, rel string) *module.Module {
	t.Helper()
	m, ok := set.Lookup(filepath.Join(root, rel))
	require.True(t, ok, "module %s not in set", rel)
	return m
}

func TestBuildLinksEdges(t *testing.T) {
	set, root := buildSet(t, map[string]string{
		"a.js":     "import './lib/b.js';\nimport x from '/c.js';",
		"lib/b.js": "console.log('b');",
		"c.js":     "console.log('c');",
	})

	a := lookup(t, set, root, "a.js")
	b := lookup(t, set, root, "lib/b.js")
	c := lookup(t, set, root, "c.js")

	require.Len(t, a.Edges, 2)
	assert.Equal(t, b.AbsPath, a.Edges[0].Target)
	assert.Equal(t, c.AbsPath, a.Edges[1].Target)
	assert.False(t, a.Edges[0].Unresolved)
	assert.False(t, a.Edges[1].Unresolved)

	assert.Equal(t, []string{a.AbsPath}, b.Importers)
	assert.Equal(t, []string{a.AbsPath}, c.Importers)
}

func TestBuildNormalizesDotSegments(t *testing.T) {
	set, root := buildSet(t, map[string]string{
		"src/a.js": "import '../lib/./b.js';",
		"lib/b.js": "",
	})

	a := lookup(t, set, root, "src/a.js")
	require.Len(t, a.Edges, 1)
	assert.Equal(t, filepath.Join(root, "lib", "b.js"), a.Edges[0].Target)
}

func TestBuildReverseEdgesDeduplicate(t *testing.T) {
	set, root := buildSet(t, map[string]string{
		"a.js": "import './b.js';\nimport {x} from './b.js';",
		"b.js": "export const x = 1;",
	})

	b := lookup(t, set, root, "b.js")
	a := lookup(t, set, root, "a.js")
	assert.Equal(t, []string{a.AbsPath}, b.Importers)
}

func TestBuildUnresolvedEdges(t *testing.T) {
	t.Run("target outside the tree", func(t *testing.T) {
		set, root := buildSet(t, map[string]string{
			"a.js": "import './missing.js';",
		})
		a := lookup(t, set, root, "a.js")
		require.Len(t, a.Edges, 1)
		assert.True(t, a.Edges[0].Unresolved)
	})

	t.Run("target excluded", func(t *testing.T) {
		set, root := buildSet(t, map[string]string{
			"a.js":        "import './vendor/x.js';",
			"vendor/x.js": "",
		}, "vendor/x.js")
		a := lookup(t, set, root, "a.js")
		require.Len(t, a.Edges, 1)
		assert.True(t, a.Edges[0].Unresolved)
		x := lookup(t, set, root, "vendor/x.js")
		assert.Empty(t, x.Importers)
	})

	t.Run("bare specifier not linked", func(t *testing.T) {
		set, root := buildSet(t, map[string]string{
			"a.js": "import React from 'react';",
		})
		a := lookup(t, set, root, "a.js")
		require.Len(t, a.Edges, 1)
		assert.Empty(t, a.Edges[0].Target)
		assert.False(t, a.Edges[0].Unresolved)
	})
}

func TestBuildUnparsableFileIsImportFree(t *testing.T) {
	set, root := buildSet(t, map[string]string{
		"bad.js":   "import {a, b",
		"good.js":  "import './other.js';",
		"other.js": "",
	})
	assert.Empty(t, lookup(t, set, root, "bad.js").Edges)
	assert.Len(t, lookup(t, set, root, "good.js").Edges, 1)
}

func TestAssignLevelsChain(t *testing.T) {
	// a -> b -> c: c must settle first, so level(c) > level(b) > level(a).
	set, root := buildSet(t, map[string]string{
		"a.js": "import './b.js';",
		"b.js": "import './c.js';",
		"c.js": "",
	})

	a := lookup(t, set, root, "a.js")
	b := lookup(t, set, root, "b.js")
	c := lookup(t, set, root, "c.js")
	assert.Equal(t, 0, a.Level)
	assert.Greater(t, b.Level, a.Level)
	assert.Greater(t, c.Level, b.Level)
}

func TestAssignLevelsDiamond(t *testing.T) {
	// a -> b -> d, a -> c -> d: d must outrank both b and c.
	set, root := buildSet(t, map[string]string{
		"a.js": "import './b.js';\nimport './c.js';",
		"b.js": "import './d.js';",
		"c.js": "import './d.js';",
		"d.js": "",
	})

	b := lookup(t, set, root, "b.js")
	c := lookup(t, set, root, "c.js")
	d := lookup(t, set, root, "d.js")
	assert.Greater(t, d.Level, b.Level)
	assert.Greater(t, d.Level, c.Level)
}

func TestAssignLevelsTerminatesOnCycle(t *testing.T) {
	set, root := buildSet(t, map[string]string{
		"a.js": "import './b.js';",
		"b.js": "import './a.js';",
	})

	a := lookup(t, set, root, "a.js")
	b := lookup(t, set, root, "b.js")
	// One of the two must outrank the other; which one is deterministic for
	// a fixed discovery order.
	assert.NotEqual(t, a.Level, b.Level)
}

func TestAssignLevelsSelfImport(t *testing.T) {
	set, root := buildSet(t, map[string]string{
		"a.js": "import './a.js';",
	})
	a := lookup(t, set, root, "a.js")
	assert.Equal(t, 0, a.Level)
}

func TestProcessingOrder(t *testing.T) {
	set, root := buildSet(t, map[string]string{
		"a.js": "import './b.js';",
		"b.js": "import './c.js';",
		"c.js": "",
	})

	order := ProcessingOrder(set)
	require.Len(t, order, 3)
	assert.Equal(t, filepath.Join(root, "c.js"), order[0].AbsPath)
	assert.Equal(t, filepath.Join(root, "b.js"), order[1].AbsPath)
	assert.Equal(t, filepath.Join(root, "a.js"), order[2].AbsPath)
}

func TestProcessingOrderTiesFollowDiscoveryOrder(t *testing.T) {
	set, _ := buildSet(t, map[string]string{
		"a.js": "",
		"b.js": "",
		"c.js": "",
	})

	order := ProcessingOrder(set)
	require.Len(t, order, 3)
	assert.Equal(t, "a.js", order[0].RelPath)
	assert.Equal(t, "b.js", order[1].RelPath)
	assert.Equal(t, "c.js", order[2].RelPath)
}
