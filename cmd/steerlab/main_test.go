package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadDotEnv_LoadsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STEERLAB_DOTENV_PROBE=loaded\n"), 0o644))

	require.NoError(t, loadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv("STEERLAB_DOTENV_PROBE") })

	assert.Equal(t, "loaded", os.Getenv("STEERLAB_DOTENV_PROBE"))
}

func TestRun_FailsFastWithoutAPIKey(t *testing.T) {
	t.Setenv("GOODFIRE_API_KEY", "")

	dir := t.TempDir()

	err := run(
		filepath.Join(dir, "absent.env"),
		filepath.Join(dir, "absent.yaml"),
		filepath.Join(dir, "output"),
		filepath.Join(dir, "logs"),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOODFIRE_API_KEY")

	// Fail-fast: no log directory is created before the credential check.
	_, statErr := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(statErr))
}
