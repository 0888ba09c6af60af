package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "", cfg.StaticDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.ICEServers)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DESKSTREAM_ADDR", "127.0.0.1:9999")
	t.Setenv("DESKSTREAM_LOG_LEVEL", "debug")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskstream.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: 127.0.0.1:7000\nstatic: /srv/www\nlog:\n  format: json\n"), 0o600))

	v := New()
	v.SetConfigFile(path)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
	assert.Equal(t, "/srv/www", cfg.StaticDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskstream.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unterminated\n"), 0o600))

	v := New()
	v.SetConfigFile(path)
	_, err := Load(v)
	assert.Error(t, err)
}
