package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvProvider, EnvModel, EnvEditModel, EnvEndpoint, EnvDebounce} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 2*time.Second, cfg.Editor.Debounce.Duration)
	assert.Equal(t, 20, cfg.Editor.MinSuggestWords)
	assert.Equal(t, 2*time.Minute, cfg.Requests.Timeout.Duration)
}

func TestLoadDecodesTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
provider = "Ollama"

[models]
generate = "llama3:70b"
edit = "llama3:8b"

[endpoint]
url = "http://gpu:11434"

[editor]
debounce = "750ms"
min_suggest_words = 5

[requests]
timeout = "45s"
requests_per_minute = 12
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "llama3:70b", cfg.Models.Generate)
	assert.Equal(t, "llama3:8b", cfg.Models.Edit)
	assert.Equal(t, "http://gpu:11434", cfg.Endpoint.URL)
	assert.Equal(t, 750*time.Millisecond, cfg.Editor.Debounce.Duration)
	assert.Equal(t, 5, cfg.Editor.MinSuggestWords)
	assert.Equal(t, 45*time.Second, cfg.Requests.Timeout.Duration)
	assert.Equal(t, 12, cfg.Requests.RequestsPerMinute)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider = \"gemini\"\napi_key = \"nope\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider = \"gemini\"\n")
	t.Setenv(EnvProvider, "openai")
	t.Setenv(EnvModel, "gpt-4o")
	t.Setenv(EnvDebounce, "1500")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Models.Generate)
	assert.Equal(t, 1500*time.Millisecond, cfg.Editor.Debounce.Duration)
}

func TestConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[editor]\nmin_suggest_words = 3\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Editor.MinSuggestWords)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "palm" }},
		{name: "zero debounce", mutate: func(c *Config) { c.Editor.Debounce = Duration{} }},
		{name: "negative words", mutate: func(c *Config) { c.Editor.MinSuggestWords = -1 }},
		{name: "zero words", mutate: func(c *Config) { c.Editor.MinSuggestWords = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.Requests.RequestsPerMinute = -3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Provider = "palm"
	assert.True(t, errors.Is(cfg.Validate(), ErrUnknownProvider))
}

func TestBadDebounceEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDebounce, "soon")

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
