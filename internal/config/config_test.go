package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoadDefaults verifies the defaults applied when neither file nor
// environment sets a value.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "embedded", cfg.Dataset.Source)
	assert.Equal(t, "cyclic", cfg.Engine.Boundary)
	assert.Equal(t, "locales", cfg.App.LocalesDir)
	assert.Equal(t, "en", cfg.App.DefaultLanguage)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "tg-token"
redis:
  uri: "redis://localhost:6379/0"
http:
  addr: ":9090"
  read_timeout: 2s
dataset:
  source: sqlite
  path: data/quran.db
engine:
  boundary: terminal
app:
  default_language: ar
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tg-token", cfg.Telegram.Token)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URI)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Dataset.Source)
	assert.Equal(t, "data/quran.db", cfg.Dataset.Path)
	assert.Equal(t, "terminal", cfg.Engine.Boundary)
	assert.Equal(t, "ar", cfg.App.DefaultLanguage)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.ValidateBot())
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "http:\n  addr: \":9090\"\n")
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("ENGINE_BOUNDARY", "terminal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, "terminal", cfg.Engine.Boundary)
}

func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown dataset source", body: "dataset:\n  source: postgres\n"},
		{name: "file source without path", body: "dataset:\n  source: file\n"},
		{name: "unknown boundary", body: "engine:\n  boundary: bounce\n"},
		{name: "unsupported language", body: "app:\n  default_language: fr\n"},
		{name: "unknown log format", body: "log:\n  format: xml\n"},
		{name: "zero timeout", body: "http:\n  read_timeout: 0s\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateBot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram token is required")
	assert.Contains(t, err.Error(), "redis URI is required")
}
