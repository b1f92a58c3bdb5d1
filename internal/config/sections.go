package config

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// AIConfig provides type-safe access to AI backend settings.
type AIConfig struct {
	// Enabled enables AI features.
	Enabled bool

	// Provider is the AI provider ("ollama", "anthropic", "openai", "google").
	Provider string

	// Model is the model to use; empty selects the provider default.
	Model string

	// Endpoint is the base URL for local providers such as Ollama.
	Endpoint string

	// MaxTokens is the maximum number of tokens for AI responses.
	MaxTokens int

	// TimeoutSeconds bounds a single generation request.
	TimeoutSeconds int

	// OpenAIKey, AnthropicKey, and GoogleKey hold per-provider API keys.
	OpenAIKey    string
	AnthropicKey string
	GoogleKey    string
}

// APIKey returns the key for the configured provider. Local providers
// have no key.
func (a AIConfig) APIKey() string {
	switch a.Provider {
	case "openai":
		return a.OpenAIKey
	case "anthropic":
		return a.AnthropicKey
	case "google":
		return a.GoogleKey
	}
	return ""
}

// AssistConfig provides type-safe access to suggestion workflow settings.
type AssistConfig struct {
	// ShowInlineDecorations highlights the target range of a pending
	// suggestion in the editor.
	ShowInlineDecorations bool

	// AutoSave saves the document after a suggestion is applied.
	AutoSave bool

	// Focus narrows AI analysis ("security", "performance", "style",
	// "bugs", or empty for general).
	Focus string

	// ActionsFile is the path to a Lua file defining custom actions.
	ActionsFile string
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the logging verbosity level ("debug", "info", "warn", "error").
	Level string
}

// AI returns a snapshot of the AI backend settings.
func (c *Config) AI() AIConfig {
	return AIConfig{
		Enabled:        c.getBoolOr("ai.enabled", true),
		Provider:       c.getStringOr("ai.provider", "ollama"),
		Model:          c.getStringOr("ai.model", ""),
		Endpoint:       c.getStringOr("ai.endpoint", "http://localhost:11434"),
		MaxTokens:      c.getIntOr("ai.maxTokens", 4096),
		TimeoutSeconds: c.getIntOr("ai.timeoutSeconds", 180),
		OpenAIKey:      c.getStringOr("ai.openaiApiKey", ""),
		AnthropicKey:   c.getStringOr("ai.anthropicApiKey", ""),
		GoogleKey:      c.getStringOr("ai.googleApiKey", ""),
	}
}

// Assist returns a snapshot of the suggestion workflow settings.
func (c *Config) Assist() AssistConfig {
	return AssistConfig{
		ShowInlineDecorations: c.getBoolOr("assist.showInlineDecorations", true),
		AutoSave:              c.getBoolOr("assist.autoSave", false),
		Focus:                 c.getStringOr("assist.focus", ""),
		ActionsFile:           c.getStringOr("assist.actionsFile", ""),
	}
}

// Logging returns a snapshot of the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
	}
}
