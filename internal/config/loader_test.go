package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRelayTimeoutSeconds, cfg.RelayTimeoutSeconds)
	assert.Equal(t, DefaultSessionTTLMinutes, cfg.SessionTTLMinutes)
	assert.Empty(t, cfg.Provider.BaseURL)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
host: 0.0.0.0
port: 9999
relayTimeoutSeconds: 2
sessionTTLMinutes: 0
provider:
  baseURL: https://gen.example.com
  textModel: fast-text
  imageModel: fast-image
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.RelayTimeout())
	assert.Equal(t, time.Duration(0), cfg.SessionTTL())
	assert.Equal(t, "https://gen.example.com", cfg.Provider.BaseURL)
	assert.Equal(t, "fast-text", cfg.Provider.TextModel)
	assert.Equal(t, "fast-image", cfg.Provider.ImageModel)
}

func TestLoadConfigPartialFileKeepsRemainingDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: 7070\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultRelayTimeoutSeconds, cfg.RelayTimeoutSeconds)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: [not a number\n"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
