package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Headless)
	assert.Equal(t, "vertical", cfg.ScrollDirection)
	assert.Equal(t, "pagetrace.json", cfg.ExportPath)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
target_url: https://example.com/list
consent_overlay_id: consent
link_suffix: .aspx
blocked_url_patterns:
  - "*tracker*"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/list", cfg.TargetURL)
	assert.Equal(t, "consent", cfg.ConsentOverlayID)
	assert.Equal(t, ".aspx", cfg.LinkSuffix)
	assert.Equal(t, []string{"*tracker*"}, cfg.BlockedURLPatterns)
	// Untouched defaults survive.
	assert.True(t, cfg.Headless)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_url: https://file.example.com\n"), 0600))

	t.Setenv(EnvTargetURL, "https://env.example.com")
	t.Setenv(EnvRemoteDebuggingURL, "http://127.0.0.1:9222")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.TargetURL)
	assert.Equal(t, "http://127.0.0.1:9222", cfg.RemoteDebuggingURL)
}

func TestValidateRequiresTargetURL(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target URL")

	cfg.TargetURL = "https://example.com"
	assert.NoError(t, cfg.Validate())
}
