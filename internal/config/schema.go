package config

import (
	"net"
	"strconv"
	"time"

	"github.com/ledgerocr/ledgerocr/cache"
	"github.com/ledgerocr/ledgerocr/ratelimit"
)

// Config holds ledgerocr configuration.
// Loaded from ./config.yaml or $HOME/.ledgerocr/config.yaml.
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	OCR    OCRCfg    `mapstructure:"ocr" yaml:"ocr"`
	Parse  ParseCfg  `mapstructure:"parse" yaml:"parse"`
	Cache  CacheCfg  `mapstructure:"cache" yaml:"cache"`
	Limit  LimitCfg  `mapstructure:"limit" yaml:"limit"`
}

// ServerCfg configures the HTTP service.
type ServerCfg struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"` // Upload size cap
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`   // CORS origins
}

// OCRCfg configures text recognition.
type OCRCfg struct {
	Language string `mapstructure:"language" yaml:"language"` // Tesseract language code
}

// ParseCfg configures the page parsing pipeline.
type ParseCfg struct {
	HeaderLines int  `mapstructure:"header_lines" yaml:"header_lines"` // Lines stripped from the page top
	FooterLines int  `mapstructure:"footer_lines" yaml:"footer_lines"` // Lines stripped from the page bottom
	TextOnly    bool `mapstructure:"text_only" yaml:"text_only"`       // Skip word geometry, plain text OCR
	Preprocess  bool `mapstructure:"preprocess" yaml:"preprocess"`     // Grayscale/contrast pass before OCR
}

// CacheCfg configures the on-disk result cache.
type CacheCfg struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir      string `mapstructure:"dir" yaml:"dir"` // Empty selects $HOME/.ledgerocr/cache; supports ${ENV_VAR}
	TTLDays  int    `mapstructure:"ttl_days" yaml:"ttl_days"`
	MaxBytes int64  `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// LimitCfg configures per-client rate limiting.
type LimitCfg struct {
	PerMinute int `mapstructure:"per_minute" yaml:"per_minute"` // Tokens refilled per minute
	Burst     int `mapstructure:"burst" yaml:"burst"`           // Bucket size
	PageCost  int `mapstructure:"page_cost" yaml:"page_cost"`   // Tokens charged per parsed page
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host:           "0.0.0.0",
			Port:           5001,
			MaxUploadBytes: 5 << 20,
			AllowedOrigins: []string{"*"},
		},
		OCR: OCRCfg{
			Language: "eng",
		},
		Parse: ParseCfg{
			HeaderLines: 4,
			FooterLines: 2,
			Preprocess:  true,
		},
		Cache: CacheCfg{
			Enabled:  true,
			TTLDays:  7,
			MaxBytes: 200 << 20,
		},
		Limit: LimitCfg{
			PerMinute: 30,
			Burst:     60,
			PageCost:  5,
		},
	}
}

// Addr returns the host:port the server binds.
func (s ServerCfg) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CacheConfig converts the cache section to the cache package's
// settings, resolving ${ENV_VAR} references in the directory.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		Dir:      ResolveEnvVars(c.Cache.Dir),
		TTL:      time.Duration(c.Cache.TTLDays) * 24 * time.Hour,
		MaxBytes: c.Cache.MaxBytes,
	}
}

// LimitConfig converts the limit section to the ratelimit package's
// settings.
func (c *Config) LimitConfig() ratelimit.Config {
	return ratelimit.Config{
		PerMinute: c.Limit.PerMinute,
		Burst:     c.Limit.Burst,
		PageCost:  c.Limit.PageCost,
	}
}
