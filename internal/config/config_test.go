package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: 8080
database:
  driver: mysql
  host: localhost
  port: 3306
  user: app
  password: secret
  name: rivalradar
openai:
  apiKey: file-key
  model: gpt-4o-mini
auth:
  apiKeys:
    alice: alice-key
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "file-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "alice-key", cfg.Auth.APIKeys["alice"])
	// unset rate limit falls back to defaults
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, 1, cfg.RateLimit.RefillRate)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("API_KEYS", "bob:bob-key, carol:carol-key")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
	assert.Equal(t, map[string]string{"bob": "bob-key", "carol": "carol-key"}, cfg.Auth.APIKeys)
}

func TestDSNHelpers(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t,
		"app:secret@tcp(localhost:3306)/rivalradar?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
	assert.Contains(t, cfg.PostgresDSN(), "host=localhost port=3306")
	assert.Contains(t, cfg.PostgresDSN(), "dbname=rivalradar")
}
