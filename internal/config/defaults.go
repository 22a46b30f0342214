package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is one configuration key with its default value.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns the default configuration entries.
// They are registered with viper as defaults.
func DefaultEntries() []Entry {
	return []Entry{
		// Provider
		{
			Key:         "provider.type",
			Value:       "gemini",
			Description: "Generation client: gemini (native API) or openai (OpenAI-compatible endpoint)",
		},
		{
			Key:         "provider.model",
			Value:       "gemini-2.5-flash-preview-04-17",
			Description: "Model identifier sent with every request",
		},
		{
			Key:         "provider.base_url",
			Value:       "",
			Description: "Optional endpoint override",
		},
		{
			Key:         "provider.timeout_seconds",
			Value:       120,
			Description: "HTTP timeout in seconds for generation requests",
		},
		{
			Key:         "provider.fallback_api_key",
			Value:       "${API_KEY}",
			Description: "API key used in memory when none is stored (never persisted)",
		},

		// Storage
		{
			Key:         "storage.backend",
			Value:       "bolt",
			Description: "Durable store for the API key and history: bolt, redis or memory",
		},
		{
			Key:         "storage.path",
			Value:       "",
			Description: "Bolt database file (empty: {home}/data/promptforge.db)",
		},
		{
			Key:         "storage.redis.addr",
			Value:       "127.0.0.1:6379",
			Description: "Redis address for the redis backend",
		},
		{
			Key:         "storage.redis.password",
			Value:       "",
			Description: "Redis password (supports ${ENV_VAR})",
		},
		{
			Key:         "storage.redis.db",
			Value:       0,
			Description: "Redis database number",
		},
		{
			Key:         "storage.redis.prefix",
			Value:       "promptforge",
			Description: "Key namespace in Redis",
		},
		{
			Key:         "storage.redis.container_name",
			Value:       "promptforge-redis",
			Description: "Docker container name used by `promptforge redis`",
		},
		{
			Key:         "storage.redis.image",
			Value:       "redis:7-alpine",
			Description: "Docker image used by `promptforge redis`",
		},

		// History
		{
			Key:         "history.max_items",
			Value:       20,
			Description: "Maximum number of history records kept (at most 20)",
		},

		{
			Key:         "log_level",
			Value:       "info",
			Description: "Log level: debug, info, warn or error",
		},
	}
}

// GetDefault returns the default entry for a config key, or nil.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// DefaultConfig returns configuration with the default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderCfg{
			Type:           "gemini",
			Model:          "gemini-2.5-flash-preview-04-17",
			TimeoutSeconds: 120,
			FallbackAPIKey: "${API_KEY}",
		},
		Storage: StorageCfg{
			Backend: "bolt",
			Redis: RedisCfg{
				Addr:          "127.0.0.1:6379",
				Prefix:        "promptforge",
				ContainerName: "promptforge-redis",
				Image:         "redis:7-alpine",
			},
		},
		History:  HistoryCfg{MaxItems: 20},
		LogLevel: "info",
	}
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
