// Package config loads inkwell settings from a TOML file with environment
// overrides.
//
// Lookup order for the file:
//   - the path passed to Load (the -config flag)
//   - $INKWELL_CONFIG
//   - <UserConfigDir>/inkwell/config.toml
//
// A missing file is not an error; built-in defaults apply. Credentials are
// never read from the file, only from the environment (see llm.NewFromEnv).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	EnvConfigPath = "INKWELL_CONFIG"
	EnvProvider   = "INKWELL_PROVIDER"
	EnvModel      = "INKWELL_MODEL"
	EnvEditModel  = "INKWELL_EDIT_MODEL"
	EnvEndpoint   = "INKWELL_ENDPOINT"
	EnvDebounce   = "INKWELL_DEBOUNCE"
)

var (
	// ErrUnknownProvider is returned by Validate for providers we have no client for.
	ErrUnknownProvider = errors.New("unknown provider")
)

var knownProviders = map[string]struct{}{
	"gemini": {},
	"openai": {},
	"ollama": {},
}

// Duration decodes TOML strings such as "2s" or "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete inkwell configuration.
type Config struct {
	Provider string         `toml:"provider"`
	Models   ModelsConfig   `toml:"models"`
	Endpoint EndpointConfig `toml:"endpoint"`
	Editor   EditorConfig   `toml:"editor"`
	Requests RequestsConfig `toml:"requests"`
}

// ModelsConfig picks the model per request shape. Generate seeds the
// document; Edit serves rewrites and suggestion passes.
type ModelsConfig struct {
	Generate string `toml:"generate"`
	Edit     string `toml:"edit"`
}

// EndpointConfig overrides the provider base URL.
type EndpointConfig struct {
	URL string `toml:"url"`
}

// EditorConfig tunes the background suggestion loop.
type EditorConfig struct {
	Debounce        Duration `toml:"debounce"`
	MinSuggestWords int      `toml:"min_suggest_words"`
}

// RequestsConfig bounds backend calls.
type RequestsConfig struct {
	Timeout           Duration `toml:"timeout"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: "gemini",
		Editor: EditorConfig{
			Debounce:        Duration{2 * time.Second},
			MinSuggestWords: 20,
		},
		Requests: RequestsConfig{
			Timeout: Duration{2 * time.Minute},
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "inkwell", "config.toml")
}

// Load reads the config at path (or DefaultPath when empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	if path != "" {
		if err := LoadTOML(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes the file at path on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("parse %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides fields from INKWELL_* variables.
func (c *Config) ApplyEnv() error {
	if provider := os.Getenv(EnvProvider); provider != "" {
		c.Provider = provider
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.Models.Generate = model
	}
	if model := os.Getenv(EnvEditModel); model != "" {
		c.Models.Edit = model
	}
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		c.Endpoint.URL = endpoint
	}
	if raw := os.Getenv(EnvDebounce); raw != "" {
		d, err := parseDurationOrMillis(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		c.Editor.Debounce = Duration{d}
	}
	return nil
}

// Validate reports configuration that cannot produce a working session.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if _, ok := knownProviders[c.Provider]; !ok {
		return fmt.Errorf("%w %q (want gemini, openai or ollama)", ErrUnknownProvider, c.Provider)
	}
	if c.Editor.Debounce.Duration <= 0 {
		return fmt.Errorf("editor.debounce must be positive, got %s", c.Editor.Debounce.Duration)
	}
	if c.Editor.MinSuggestWords < 1 {
		return fmt.Errorf("editor.min_suggest_words must be at least 1, got %d", c.Editor.MinSuggestWords)
	}
	if c.Requests.Timeout.Duration < 0 {
		return fmt.Errorf("requests.timeout must not be negative, got %s", c.Requests.Timeout.Duration)
	}
	if c.Requests.RequestsPerMinute < 0 {
		return fmt.Errorf("requests.requests_per_minute must not be negative, got %d", c.Requests.RequestsPerMinute)
	}
	return nil
}

// parseDurationOrMillis accepts "1500ms"-style durations or a bare integer
// number of milliseconds.
func parseDurationOrMillis(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(raw)
}
