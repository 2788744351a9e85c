package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceManagerRelease(t *testing.T) {
	rm := NewResourceManager(t.TempDir(), nil)
	rm.SetFreeMemory(false)

	first, err := rm.CreateTempDir("item-*")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(first, "scratch.md"), []byte("x"), 0644))

	second, err := rm.CreateTempDir("item-*")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, rm.Pending())

	require.NoError(t, rm.Release())
	assert.NoDirExists(t, first)
	assert.NoDirExists(t, second)
	assert.Equal(t, 0, rm.Pending())

	// second release is a no-op
	require.NoError(t, rm.Release())
}

func TestResourceManagerDirAlreadyGone(t *testing.T) {
	rm := NewResourceManager(t.TempDir(), nil)

	dir, err := rm.CreateTempDir("item-*")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	assert.NoError(t, rm.Release())
}

func TestResourceManagerDefaultsToSystemTemp(t *testing.T) {
	rm := NewResourceManager("", nil)
	rm.SetFreeMemory(false)

	dir, err := rm.CreateTempDir("img2md-test-*")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(dir))
	require.NoError(t, rm.Release())
}
