package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterOverwritesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "App.jsx")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o644))

	w := NewWriter()
	require.NoError(t, w.WriteFile(path, []byte("after")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after", string(data))

	// No temp file left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriterPreservesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.jsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o755))

	require.NoError(t, NewWriter().WriteFile(path, []byte("y")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestWriterCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.jsx")
	require.NoError(t, NewWriter().WriteFile(path, []byte("content")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestWriterFailsOnMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "new.jsx")
	err := NewWriter().WriteFile(path, []byte("content"))
	assert.Error(t, err)
}
