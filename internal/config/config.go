package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/promptforge/internal/providers"
	"github.com/jackzampolin/promptforge/internal/storage"
)

// EnvPrefix is the prefix of environment overrides (PROMPTFORGE_PROVIDER_MODEL, ...).
const EnvPrefix = "PROMPTFORGE"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// cfgFile is optional; without it config.yaml is looked up in the working
// directory and then in homeDir.
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile, homeDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, homeDir string) error {
	v := cm.v
	for _, entry := range DefaultEntries() {
		v.SetDefault(entry.Key, entry.Value)
	}

	// Environment variables with PROMPTFORGE_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir != "" {
			v.AddConfigPath(homeDir)
		}
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Value returns the raw value of a single key.
func (cm *Manager) Value(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if !cm.v.IsSet(key) {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return cm.v.Get(key), nil
}

// ConfigFile returns the config file in use, or "" when running on defaults.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToClientConfig converts the provider section for providers.NewClient.
// The API key is not part of it; it comes from the credential store.
func (c *Config) ToClientConfig() providers.ClientConfig {
	return providers.ClientConfig{
		Type:    c.Provider.Type,
		Model:   c.Provider.Model,
		BaseURL: c.Provider.BaseURL,
		Timeout: time.Duration(c.Provider.TimeoutSeconds) * time.Second,
	}
}

// FallbackAPIKey returns the resolved fallback key.
func (c *Config) FallbackAPIKey() string {
	return strings.TrimSpace(ResolveEnvVars(c.Provider.FallbackAPIKey))
}

// ToStorageConfig converts the storage section for storage.Open.
// defaultPath is used for the bolt file when storage.path is empty.
func (c *Config) ToStorageConfig(defaultPath string, logger *slog.Logger) storage.Config {
	path := c.Storage.Path
	if path == "" {
		path = defaultPath
	}
	return storage.Config{
		Backend:       c.Storage.Backend,
		Path:          path,
		RedisAddr:     c.Storage.Redis.Addr,
		RedisPassword: ResolveEnvVars(c.Storage.Redis.Password),
		RedisDB:       c.Storage.Redis.DB,
		RedisPrefix:   c.Storage.Redis.Prefix,
		Logger:        logger,
	}
}

// SlogLevel parses log_level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ProviderChanged reports whether the provider section differs.
func (c *Config) ProviderChanged(other *Config) bool {
	return other == nil || c.Provider != other.Provider
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# promptforge configuration
# provider.fallback_api_key uses ${ENV_VAR} syntax and is only used when no key
# has been saved with: promptforge key set <key>
# Environment overrides: PROMPTFORGE_PROVIDER_MODEL, PROMPTFORGE_STORAGE_BACKEND, ...

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
