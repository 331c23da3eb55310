package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Default(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Color)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func Test_Load_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func Test_Load_OverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llgramctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(`color = false
data_dir = "/var/lib/llgramctl"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Color)
	assert.Equal(t, "/var/lib/llgramctl", cfg.DataDir)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func Test_Load_MissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/llgramctl.toml")
	assert.Error(t, err)
}
