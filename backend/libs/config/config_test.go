package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HTTP struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		AllowOrigins []string      `yaml:"allow_origins"`
	} `yaml:"http"`
	Secret  string  `yaml:"secret" env:"HUB_SECRET"`
	Debug   bool    `yaml:"debug"`
	Workers int     `yaml:"workers"`
	Ratio   float64 `yaml:"ratio"`
	Ignored string  `env:"-"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigLayers(t *testing.T) {
	yamlPath := writeFile(t, "config.yaml", `
http:
  addr: ":8080"
  read_timeout: 5s
  allow_origins: [a.example]
secret: from-yaml
workers: 2
`)
	dotenvPath := writeFile(t, "test.env", "HUB_SECRET=from-dotenv\nWORKERS=4\n")

	t.Setenv("DOTENV_FILE", dotenvPath)
	t.Setenv(defaultConfigPathEnv, yamlPath)
	t.Setenv("WORKERS", "8")
	t.Setenv("HTTP_READ_TIMEOUT", "1m30s")
	t.Setenv("HTTP_ALLOW_ORIGINS", "a.example, b.example,,")
	t.Setenv("DEBUG", "true")
	t.Setenv("RATIO", "0.25")
	t.Setenv("IGNORED", "x")
	os.Unsetenv("HUB_SECRET")
	t.Cleanup(func() { os.Unsetenv("HUB_SECRET") })

	var cfg testConfig
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 90*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, "from-dotenv", cfg.Secret)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 0.25, cfg.Ratio)
	assert.Empty(t, cfg.Ignored)
}

func TestLoadConfigMissingDotenv(t *testing.T) {
	t.Setenv(defaultConfigPathEnv, "")
	t.Setenv("DOTENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	var cfg testConfig
	assert.Error(t, LoadConfig(&cfg))
}

func TestLoadConfigErrors(t *testing.T) {
	assert.Error(t, LoadConfig(nil))
	var cfg testConfig
	assert.Error(t, LoadConfig(cfg))

	t.Setenv(defaultConfigPathEnv, "")
	t.Setenv("HTTP_READ_TIMEOUT", "soon")
	assert.Error(t, LoadConfig(&cfg))
}

func TestEnvKeyFromFieldName(t *testing.T) {
	tests := map[string]string{
		"Addr":         "ADDR",
		"ReadTimeout":  "READ_TIMEOUT",
		"AllowOrigins": "ALLOW_ORIGINS",
		"HTTP":         "HTTP",
		"JWTSecret":    "JWT_SECRET",
		"MaxBodySize":  "MAX_BODY_SIZE",
		"Http2Enabled": "HTTP2_ENABLED",
		"DB":           "DB",
	}
	for field, want := range tests {
		assert.Equal(t, want, normalizeKey("", snakeCase(field)), field)
	}
	assert.Equal(t, "HTTP_READ_TIMEOUT", normalizeKey("HTTP", snakeCase("ReadTimeout")))
}
