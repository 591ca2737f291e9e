package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "websocket", cfg.Protocol)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.TLS)
	assert.Equal(t, "/ws", cfg.WSPath)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 5*time.Second, cfg.WriteWait)
	assert.Equal(t, int64(32768), cfg.ReadLimit)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, filepath.Join(".", "cert", "server.crt"), cfg.CertFile())
	assert.Equal(t, filepath.Join(".", "cert", "server.key"), cfg.KeyFile())
}

func TestLoadFile_FromYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.test.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
port: 9443
tls: true
work_dir: /srv/relay
ping_period: 10s
key_path: /etc/relay/custom.key
`), 0o600))

	cfg, err := LoadFile(file)
	require.NoError(t, err)

	assert.Equal(t, 9443, cfg.Port)
	assert.True(t, cfg.TLS)
	assert.Equal(t, 10*time.Second, cfg.PingPeriod)
	assert.Equal(t, filepath.Join("/srv/relay", "cert", "server.crt"), cfg.CertFile())
	assert.Equal(t, "/etc/relay/custom.key", cfg.KeyFile())
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("RELAY_PORT", "7000")
	t.Setenv("RELAY_PROTOCOL", "chat")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "chat", cfg.Protocol)
}

func TestLoad_UsesConfigEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.qa.yaml"), []byte("port: 6000\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "qa")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port)
}
