package encoding

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "students.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("first\n"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))

	require.NoError(t, WriteFileAtomic(path, []byte("second\n"), 0644))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("data"), 0600))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}

func TestWriteFileAtomic_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("keep"), 0644))

	// A directory in place of the parent makes the write fail.
	bad := filepath.Join(path, "child.txt")
	require.Error(t, WriteFileAtomic(bad, []byte("lost"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestRemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.m4a")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, RemoveFile(path))
	assert.False(t, FileExists(path))

	err := RemoveFile(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	got, err := ParseJSON[payload]([]byte(`{"name":"D1"}`))
	require.NoError(t, err)
	assert.Equal(t, "D1", got.Name)

	_, err = ParseJSON[payload]([]byte(`{not json`))
	assert.Error(t, err)
}
