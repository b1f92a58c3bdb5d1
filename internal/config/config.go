package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// envPrefix is stripped from environment variables before mapping.
const envPrefix = "CODEASSIST_"

// envOverrides maps environment variables to their dot paths. Variables
// not listed here are ignored.
var envOverrides = map[string]string{
	"CODEASSIST_LOG_LEVEL":     "logging.level",
	"CODEASSIST_AI_PROVIDER":   "ai.provider",
	"CODEASSIST_AI_MODEL":      "ai.model",
	"CODEASSIST_AI_ENDPOINT":   "ai.endpoint",
	"CODEASSIST_AI_MAX_TOKENS": "ai.maxTokens",
	"CODEASSIST_AI_TIMEOUT":    "ai.timeoutSeconds",
	"CODEASSIST_OPENAI_KEY":    "ai.openaiApiKey",
	"CODEASSIST_ANTHROPIC_KEY": "ai.anthropicApiKey",
	"CODEASSIST_GOOGLE_KEY":    "ai.googleApiKey",
	"CODEASSIST_AUTO_SAVE":     "assist.autoSave",
	"CODEASSIST_DECORATIONS":   "assist.showInlineDecorations",
	"CODEASSIST_FOCUS":         "assist.focus",
	"CODEASSIST_ACTIONS_FILE":  "assist.actionsFile",
}

// Config provides unified access to the codeassist configuration.
// The merged settings live in a JSON document addressed by dot path.
type Config struct {
	mu  sync.RWMutex
	doc string
}

// New creates a Config holding only the built-in defaults.
func New() *Config {
	c := &Config{doc: "{}"}
	c.loadDefaults()
	return c
}

// Load creates a Config from defaults, the TOML file at path (if any),
// and environment overrides. A missing file is not an error; a malformed
// one is.
func Load(path string) (*Config, error) {
	c := New()

	if path != "" {
		if err := c.LoadFile(path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	c.loadEnvironment()
	return c, nil
}

func (c *Config) loadDefaults() {
	defaults := map[string]any{
		"logging.level": "info",

		"ai.enabled":        true,
		"ai.provider":       "ollama",
		"ai.model":          "",
		"ai.endpoint":       "http://localhost:11434",
		"ai.maxTokens":      4096,
		"ai.timeoutSeconds": 180,

		"assist.showInlineDecorations": true,
		"assist.autoSave":              false,
		"assist.focus":                 "",
		"assist.actionsFile":           "",
	}
	for path, v := range defaults {
		_ = c.Set(path, v)
	}
}

// LoadFile merges the TOML settings file at path into the configuration.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	mergeTree(c, "", tree)
	return nil
}

// mergeTree flattens nested tables into dot paths and stores the leaves.
func mergeTree(c *Config, prefix string, tree map[string]any) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			mergeTree(c, path, sub)
			continue
		}
		_ = c.Set(path, value)
	}
}

// loadEnvironment applies CODEASSIST_* overrides on top of the current
// settings. Values parse as bool, then number, then string.
func (c *Config) loadEnvironment() {
	for _, entry := range os.Environ() {
		name, raw, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		path, known := envOverrides[name]
		if !known {
			continue
		}
		_ = c.Set(path, coerceEnvValue(raw))
	}
}

func coerceEnvValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// Get retrieves the raw value at a dot path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := gjson.Get(c.doc, path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// Set stores a value at a dot path, replacing any previous value.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := sjson.Set(c.doc, path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	c.doc = doc
	return nil
}

// GetString retrieves a string value at a dot path.
func (c *Config) GetString(path string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := gjson.Get(c.doc, path)
	switch {
	case !res.Exists():
		return "", ErrSettingNotFound
	case res.Type != gjson.String:
		return "", fmt.Errorf("%s: %w", path, ErrTypeMismatch)
	}
	return res.String(), nil
}

// GetInt retrieves an integer value at a dot path.
func (c *Config) GetInt(path string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := gjson.Get(c.doc, path)
	switch {
	case !res.Exists():
		return 0, ErrSettingNotFound
	case res.Type != gjson.Number:
		return 0, fmt.Errorf("%s: %w", path, ErrTypeMismatch)
	}
	return int(res.Int()), nil
}

// GetBool retrieves a boolean value at a dot path.
func (c *Config) GetBool(path string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := gjson.Get(c.doc, path)
	switch {
	case !res.Exists():
		return false, ErrSettingNotFound
	case res.Type != gjson.True && res.Type != gjson.False:
		return false, fmt.Errorf("%s: %w", path, ErrTypeMismatch)
	}
	return res.Bool(), nil
}

// GetFloat retrieves a floating-point value at a dot path.
func (c *Config) GetFloat(path string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := gjson.Get(c.doc, path)
	switch {
	case !res.Exists():
		return 0, ErrSettingNotFound
	case res.Type != gjson.Number:
		return 0, fmt.Errorf("%s: %w", path, ErrTypeMismatch)
	}
	return res.Float(), nil
}

func (c *Config) getStringOr(path, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		return defaultValue
	}
	return v
}
