package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDir(t *testing.T) {
	t.Run("skips subdirectories and editor backups", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "acme.log", "")
		writeFile(t, dir, "acme.log~", "")
		writeFile(t, dir, "beta.log", "")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

		files, err := Dir(dir, "")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "acme.log"),
			filepath.Join(dir, "beta.log"),
		}, files)
	})

	t.Run("glob filters by name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "acme.log", "")
		writeFile(t, dir, "notes.txt", "")

		files, err := Dir(dir, "*.log")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "acme.log")}, files)
	})

	t.Run("no matching files is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "notes.txt", "")

		_, err := Dir(dir, "*.log")
		require.Error(t, err)
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		_, err := Dir(filepath.Join(t.TempDir(), "nope"), "")
		require.Error(t, err)
	})
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme.log", "start 2020-01-06\n\n2020-01-06 09:00 -- 12:00\n")

	lines, err := ReadLines(filepath.Join(dir, "acme.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{"start 2020-01-06", "", "2020-01-06 09:00 -- 12:00"}, lines)
}
