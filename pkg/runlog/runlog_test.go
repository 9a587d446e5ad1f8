package runlog_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/germanamz/steerlab/pkg/runlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesWritableFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, err := runlog.OpenConsole(dir, "steerlab", &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	info, err := os.Stat(log.Path())
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.True(t, strings.HasPrefix(filepath.Base(log.Path()), "steerlab_"))
	assert.True(t, strings.HasSuffix(log.Path(), ".log"))
}

func TestLogger_WritesToFileAndConsole(t *testing.T) {
	var console bytes.Buffer

	log, err := runlog.OpenConsole(t.TempDir(), "steerlab", &console)
	require.NoError(t, err)

	log.Logger().Info("playground started", "run_id", "abc")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)

	assert.Contains(t, string(data), "playground started")
	assert.Contains(t, string(data), "run_id=abc")
	assert.Contains(t, console.String(), "playground started")
}

func TestLogger_DebugLevelSuppressedOnConsole(t *testing.T) {
	var console bytes.Buffer

	log, err := runlog.OpenConsole(t.TempDir(), "steerlab", &console)
	require.NoError(t, err)

	log.Logger().Debug("hidden everywhere")
	log.Debug("goodfire").Debug("applied edits", "count", 2)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "hidden everywhere")
	assert.Contains(t, string(data), "applied edits")
	assert.Contains(t, string(data), "logger=goodfire")
	assert.NotContains(t, console.String(), "applied edits")
}

func TestOpen_ReopenTargetsNewFileOnly(t *testing.T) {
	dir := t.TempDir()

	first, err := runlog.OpenConsole(dir, "first", &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := runlog.OpenConsole(dir, "second", &bytes.Buffer{})
	require.NoError(t, err)

	// Output after the first Log is closed lands only in the second file.
	first.Logger().Info("stale write")
	second.Logger().Info("fresh write")
	require.NoError(t, second.Close())

	firstData, err := os.ReadFile(first.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(firstData), "stale write")

	secondData, err := os.ReadFile(second.Path())
	require.NoError(t, err)
	assert.Contains(t, string(secondData), "fresh write")
	assert.NotContains(t, string(secondData), "stale write")
}

func TestOpen_BadDirPropagates(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := runlog.Open(filepath.Join(file, "logs"), "steerlab")
	assert.Error(t, err)
}
