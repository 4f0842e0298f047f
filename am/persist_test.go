package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ProjectConfigName)

	require.NoError(t, WriteDefault(path, false))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, StarterConfig().Generate.Packages, cfg.Generate.Packages)
	assert.Equal(t, FormatCapnp, cfg.Generate.Format)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.NoError(t, cfg.Validate())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# schemagen configuration")
	assert.Contains(t, string(data), "[generate]")
}

func TestWriteDefault_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0644))

	err := WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteDefault(path, true))

	backup, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(backup))
}

func TestCreateBackup_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	for _, content := range []string{"one", "two", "three", "four"} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		require.NoError(t, createBackup(path))
	}

	for suffix, want := range map[string]string{".back1": "four", ".back2": "three", ".back3": "two"} {
		got, err := os.ReadFile(path + suffix)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), suffix)
	}
}

func TestCreateBackup_NoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	require.NoError(t, createBackup(path))
	_, err := os.Stat(path + ".back1")
	assert.True(t, os.IsNotExist(err))
}
