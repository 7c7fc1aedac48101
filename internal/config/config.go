package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
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
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("server.host", defaults.Server.Host)
	viper.SetDefault("server.port", defaults.Server.Port)
	viper.SetDefault("server.max_upload_bytes", defaults.Server.MaxUploadBytes)
	viper.SetDefault("server.allowed_origins", defaults.Server.AllowedOrigins)
	viper.SetDefault("ocr.language", defaults.OCR.Language)
	viper.SetDefault("parse.header_lines", defaults.Parse.HeaderLines)
	viper.SetDefault("parse.footer_lines", defaults.Parse.FooterLines)
	viper.SetDefault("parse.text_only", defaults.Parse.TextOnly)
	viper.SetDefault("parse.preprocess", defaults.Parse.Preprocess)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.dir", defaults.Cache.Dir)
	viper.SetDefault("cache.ttl_days", defaults.Cache.TTLDays)
	viper.SetDefault("cache.max_bytes", defaults.Cache.MaxBytes)
	viper.SetDefault("limit.per_minute", defaults.Limit.PerMinute)
	viper.SetDefault("limit.burst", defaults.Limit.Burst)
	viper.SetDefault("limit.page_cost", defaults.Limit.PageCost)

	// Environment variables with LEDGEROCR_ prefix, nested keys joined
	// by underscores (LEDGEROCR_SERVER_PORT overrides server.port).
	viper.SetEnvPrefix("LEDGEROCR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.ledgerocr")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
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
	if err := viper.Unmarshal(&cfg); err != nil {
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

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
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
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ledgerocr configuration
# String values may reference environment variables with ${ENV_VAR} syntax.
# Every key can also be set through the environment with a LEDGEROCR_ prefix,
# e.g. LEDGEROCR_SERVER_PORT=8080 overrides server.port.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
