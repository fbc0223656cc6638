package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dt-pm-tools/tracker-port/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "url: https://github.example.com/api/v3\nlogin: operator\ntoken: secret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://github.example.com/api/v3", cfg.URL)
	assert.Equal(t, "operator", cfg.Login)
	assert.Equal(t, "secret", cfg.Token)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("GITHUB_LOGIN", "env-login")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAPIURL, cfg.URL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "env-login", cfg.Login)
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := config.Config{URL: config.DefaultAPIURL}
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := config.Config{URL: config.DefaultAPIURL, Login: "me", Token: "tok"}
	require.NoError(t, config.Save(in, path))

	out, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
