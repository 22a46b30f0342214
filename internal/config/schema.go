package config

// Config holds promptforge configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Provider ProviderCfg `mapstructure:"provider" yaml:"provider"`
	Storage  StorageCfg  `mapstructure:"storage" yaml:"storage"`
	History  HistoryCfg  `mapstructure:"history" yaml:"history"`
	LogLevel string      `mapstructure:"log_level" yaml:"log_level"` // debug, info, warn, error
}

// ProviderCfg configures the generation service client.
type ProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                         // "gemini", "openai"
	Model          string `mapstructure:"model" yaml:"model"`                       // Model name
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`                 // Optional endpoint override
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`   // HTTP timeout
	FallbackAPIKey string `mapstructure:"fallback_api_key" yaml:"fallback_api_key"` // Used when no key is stored (supports ${ENV_VAR} syntax)
}

// StorageCfg selects the durable key-value store.
type StorageCfg struct {
	Backend string   `mapstructure:"backend" yaml:"backend"` // "bolt", "redis", "memory"
	Path    string   `mapstructure:"path" yaml:"path"`       // Bolt file (default: {home}/data/promptforge.db)
	Redis   RedisCfg `mapstructure:"redis" yaml:"redis"`
}

// RedisCfg configures the redis backend and its managed container.
type RedisCfg struct {
	Addr          string `mapstructure:"addr" yaml:"addr"`
	Password      string `mapstructure:"password" yaml:"password"` // supports ${ENV_VAR} syntax
	DB            int    `mapstructure:"db" yaml:"db"`
	Prefix        string `mapstructure:"prefix" yaml:"prefix"`
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	Image         string `mapstructure:"image" yaml:"image"`
}

// HistoryCfg configures the history ledger.
type HistoryCfg struct {
	MaxItems int `mapstructure:"max_items" yaml:"max_items"`
}
