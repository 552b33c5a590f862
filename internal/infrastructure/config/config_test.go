package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  base_url: https://admin.example.com
report:
  mail_recipients: [owner@example.com]
`)

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://admin.example.com", cfg.Server.GetFrontendURL())
	assert.Equal(t, []string{"owner@example.com"}, cfg.Report.MailRecipients)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 120, cfg.CSRF.TokenTTLMinutes)
	assert.Equal(t, DefaultContentSecurityPolicy, cfg.Security.ContentSecurityPolicy)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt:\n    secret: from-file\n")
	t.Setenv("SHOPADMIN_AUTH_JWT_SECRET", "from-env")

	cfg, err := Load("release", path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWT.Secret)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [unterminated\n")

	_, err := Load("", path)
	assert.Error(t, err)
}
