package main

import (
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"os/user"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())
	assert.Equal(t, DefaultAddr, config.HTTP.Addr)
	assert.Equal(t, LogFormatLogfmt, config.Log.Format)
	assert.Zero(t, config.RateLimit.RPS)
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower.toml")
	data := `
[http]
addr = ":9090"
allowed-origins = ["https://example.com"]

[log]
format = "json"

[ratelimit]
rps = 2.5
burst = 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	config, err := ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", config.HTTP.Addr)
	assert.Equal(t, []string{"https://example.com"}, config.HTTP.AllowedOrigins)
	assert.Equal(t, LogFormatJSON, config.Log.Format)
	assert.Equal(t, 2.5, config.RateLimit.RPS)
	assert.Equal(t, 3, config.RateLimit.Burst)
	assert.NoError(t, config.Validate())
}

func TestReadConfigFile_KeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nformat = \"json\"\n"), 0o600))

	config, err := ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, config.HTTP.Addr)
	assert.Equal(t, LogFormatJSON, config.Log.Format)
}

func TestReadConfigFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower.toml")
	require.NoError(t, os.WriteFile(path, []byte("[http\n"), 0o600))

	_, err := ReadConfigFile(path)
	assert.Error(t, err)
}

func TestConfig_ValidateCollectsAllProblems(t *testing.T) {
	config := DefaultConfig()
	config.HTTP.Addr = ""
	config.Log.Format = "xml"
	config.RateLimit.RPS = 5
	config.RateLimit.Burst = 0

	err := config.Validate()
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 3)
}

func TestExpand(t *testing.T) {
	path, err := expand("relative/tower.toml")
	require.NoError(t, err)
	assert.Equal(t, "relative/tower.toml", path)

	u, err := user.Current()
	if err != nil || u.HomeDir == "" {
		t.Skip("no home directory")
	}

	path, err = expand("~")
	require.NoError(t, err)
	assert.Equal(t, u.HomeDir, path)

	path, err = expand(filepath.Join("~", "tower.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(u.HomeDir, "tower.toml"), path)
}
