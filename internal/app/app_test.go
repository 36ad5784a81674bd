package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/cachebust/internal/hasher"
	"github.com/vk/cachebust/internal/hclconf"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunInPlaceSpecExample(t *testing.T) {
	srcRoot := t.TempDir()
	writeTree(t, srcRoot, map[string]string{
		"a.js": "import './b.js'",
		"b.js": "console.log(1)",
	})

	testApp, _ := SetupAppTest(t, &Config{SourceRoot: srcRoot}, nil)
	results, err := testApp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	wantHash := hasher.Sum([]byte("console.log(1)"))
	assert.Equal(t, fmt.Sprintf("import './b.js?v=%s'", wantHash),
		readFile(t, filepath.Join(srcRoot, "a.js")))
	assert.Equal(t, "console.log(1)", readFile(t, filepath.Join(srcRoot, "b.js")))

	byRel := make(map[string]BuildResult)
	for _, r := range results {
		byRel[r.RelPath] = r
	}
	assert.True(t, byRel["a.js"].Modified)
	assert.False(t, byRel["b.js"].Modified)
}

func TestRunEmitsToOutputRoot(t *testing.T) {
	srcRoot := t.TempDir()
	outRoot := filepath.Join(t.TempDir(), "dist")
	writeTree(t, srcRoot, map[string]string{
		"app.js":      "import './lib/util.js';",
		"lib/util.js": "export const u = 1;",
	})

	testApp, _ := SetupAppTest(t, &Config{SourceRoot: srcRoot, OutputRoot: outRoot}, nil)
	_, err := testApp.Run(context.Background())
	require.NoError(t, err)

	// Source untouched, output rewritten with directory structure preserved.
	assert.Equal(t, "import './lib/util.js';", readFile(t, filepath.Join(srcRoot, "app.js")))
	wantHash := hasher.Sum([]byte("export const u = 1;"))
	assert.Equal(t, fmt.Sprintf("import './lib/util.js?v=%s';", wantHash),
		readFile(t, filepath.Join(outRoot, "app.js")))
	assert.Equal(t, "export const u = 1;", readFile(t, filepath.Join(outRoot, "lib", "util.js")))
}

func TestRunExcludePatterns(t *testing.T) {
	srcRoot := t.TempDir()
	writeTree(t, srcRoot, map[string]string{
		"a.js":        "import './vendor/x.js';\nimport './b.js';",
		"b.js":        "b",
		"vendor/x.js": "vendored",
	})

	testApp, _ := SetupAppTest(t, &Config{
		SourceRoot: srcRoot,
		Exclude:    []string{"vendor/**"},
	}, nil)
	_, err := testApp.Run(context.Background())
	require.NoError(t, err)

	got := readFile(t, filepath.Join(srcRoot, "a.js"))
	assert.Contains(t, got, "import './vendor/x.js';")
	assert.Contains(t, got, "./b.js?v="+hasher.Sum([]byte("b")))
	assert.Equal(t, "vendored", readFile(t, filepath.Join(srcRoot, "vendor", "x.js")))
}

func TestRunIdempotence(t *testing.T) {
	srcRoot := t.TempDir()
	writeTree(t, srcRoot, map[string]string{
		"a.js": "import './b.js';",
		"b.js": "import './c.js';",
		"c.js": "leaf",
	})

	run := func() map[string]string {
		testApp, _ := SetupAppTest(t, &Config{SourceRoot: srcRoot}, nil)
		_, err := testApp.Run(context.Background())
		require.NoError(t, err)
		return map[string]string{
			"a.js": readFile(t, filepath.Join(srcRoot, "a.js")),
			"b.js": readFile(t, filepath.Join(srcRoot, "b.js")),
			"c.js": readFile(t, filepath.Join(srcRoot, "c.js")),
		}
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestRunWithConfigFile(t *testing.T) {
	srcRoot := t.TempDir()
	outRoot := filepath.Join(t.TempDir(), "dist")
	writeTree(t, srcRoot, map[string]string{
		"a.js":  "import './b.mjs';",
		"b.mjs": "m",
	})

	configPath := filepath.Join(t.TempDir(), "cachebust.hcl")
	configBody := fmt.Sprintf(`
source {
  root = %q
}

output {
  root  = %q
  clean = true
}
`, srcRoot, outRoot)
	require.NoError(t, os.WriteFile(configPath, []byte(configBody), 0o644))

	testApp, _ := SetupAppTest(t, &Config{ConfigPath: configPath}, hclconf.NewLoader())
	_, err := testApp.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, readFile(t, filepath.Join(outRoot, "a.js")),
		"./b.mjs?v="+hasher.Sum([]byte("m")))
}

func TestNewAppFatalStartupErrors(t *testing.T) {
	t.Run("missing source root", func(t *testing.T) {
		assert.Panics(t, func() {
			NewApp(&SafeBuffer{}, &Config{
				SourceRoot: filepath.Join(t.TempDir(), "does-not-exist"),
			}, nil)
		})
	})

	t.Run("missing config file", func(t *testing.T) {
		assert.Panics(t, func() {
			NewApp(&SafeBuffer{}, &Config{
				ConfigPath: filepath.Join(t.TempDir(), "nope.hcl"),
			}, hclconf.NewLoader())
		})
	})
}
