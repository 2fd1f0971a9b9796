package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var rels []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func TestScannerCollectsComponentFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"App.jsx":              "const a = 1;",
		"pages/Index.tsx":      "const b = 2;",
		"pages/util.js":        "const c = 3;",
		"notes.txt":            "not code",
		"style.css":            "body {}",
		"node_modules/Dep.jsx": "ignored",
		"dist/Out.jsx":         "ignored",
		".hidden/Secret.jsx":   "ignored",
	})

	files, err := NewScanner(DefaultConfig(root), nil).Scan(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"App.jsx", "pages/Index.tsx", "pages/util.js"},
		relPaths(t, root, files))
}

func TestScannerExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"App.jsx":            "a",
		"App.test.jsx":       "a",
		"legacy/Old.jsx":     "a",
		"legacy/sub/Two.jsx": "a",
	})

	cfg := DefaultConfig(root)
	cfg.Exclude = []string{"*.test.jsx", "legacy/**"}

	files, err := NewScanner(cfg, nil).Scan(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"App.jsx"}, relPaths(t, root, files))
}

func TestScannerIncludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/App.jsx":   "a",
		"src/Other.tsx": "a",
		"tools/Gen.jsx": "a",
	})

	cfg := DefaultConfig(root)
	cfg.Include = []string{"src/**"}

	files, err := NewScanner(cfg, nil).Scan(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"src/App.jsx", "src/Other.tsx"},
		relPaths(t, root, files))
}

func TestScannerMissingRootIsEnvironmentError(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "absent"))
	_, err := NewScanner(cfg, nil).Scan(context.Background())
	require.Error(t, err)

	var envErr *EnvironmentError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, cfg.Root, envErr.Root)
}

func TestScannerFileRootIsEnvironmentError(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "single.jsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := DefaultConfig(file)
	_, err := NewScanner(cfg, nil).Scan(context.Background())

	var envErr *EnvironmentError
	require.ErrorAs(t, err, &envErr)
}

func TestScannerSymlinkLoop(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"sub/App.jsx": "a"})
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := NewScanner(DefaultConfig(root), nil).Scan(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sub/App.jsx"}, relPaths(t, root, files))
}
