package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_Missing(t *testing.T) {
	img, found, err := ReadFile(filepath.Join(t.TempDir(), "absent.dat"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, img)
}

func TestWriteFile_CreatesDirectoryAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "products.dat")
	img := sampleImage(t)

	require.NoError(t, WriteFile(path, "", img))

	loaded, found, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, flatten(img), flatten(loaded))
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestWriteFile_BacksUpPreviousContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.dat")
	backup := filepath.Join(dir, "products.bak")

	// No previous file, so no backup yet
	require.NoError(t, WriteFile(path, backup, &Image{NextCategoryID: 1, NextSubgroupID: 1, NextProductID: 1}))
	_, err := os.Stat(backup)
	assert.True(t, os.IsNotExist(err))

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, backup, sampleImage(t)))
	saved, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, first, saved)
	assertNoTempFiles(t, dir)
}

func TestWriteFile_FailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory where the data file should be makes the rename fail
	path := filepath.Join(dir, "products.dat")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))

	err := WriteFile(path, "", sampleImage(t))
	require.Error(t, err)
	assertNoTempFiles(t, dir)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestReadFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.dat")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	img, found, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.True(t, found)
	assert.Nil(t, img)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}
