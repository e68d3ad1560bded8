// Package config defines the sabdamanthan configuration structures.  No I/O
// lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds the web shell's HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// InferenceConfig points at the model service.
type InferenceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout of zero means the request is bounded only by its context.
	Timeout time.Duration `mapstructure:"timeout"`
	// Mock serves simulated predictions instead of calling BaseURL.
	Mock bool `mapstructure:"mock"`
	// ContinuationPrefix marks sub-word tokens.  Empty disables merging.
	ContinuationPrefix string `mapstructure:"continuation_prefix"`
	MaskToken          string `mapstructure:"mask_token"`
}

// CacheConfig configures the optional Redis prediction cache.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	TTL         time.Duration `mapstructure:"ttl"`
	Prefix      string        `mapstructure:"prefix"`
}

// MetricsConfig controls the Prometheus exposition.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// UIConfig holds the presentation defaults.
type UIConfig struct {
	DefaultLocale string        `mapstructure:"default_locale"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Inference InferenceConfig   `mapstructure:"inference"`
	Cache     CacheConfig       `mapstructure:"cache"`
	Log       logging.LogConfig `mapstructure:"log"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
	UI        UIConfig          `mapstructure:"ui"`

	// Source is the file the configuration was read from, if any.
	Source string `mapstructure:"-"`
}

// Validate returns the first semantic error in c.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"inference.timeout":       c.Inference.Timeout,
	} {
		if d < 0 {
			return fmt.Errorf("config: %s must not be negative, got %s", name, d)
		}
	}

	if !c.Inference.Mock {
		if c.Inference.BaseURL == "" {
			return fmt.Errorf("config: inference.base_url is required unless inference.mock is set")
		}
		u, err := url.Parse(c.Inference.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: inference.base_url %q is not an http(s) URL", c.Inference.BaseURL)
		}
	}
	if c.Inference.MaskToken == "" {
		return fmt.Errorf("config: inference.mask_token is required")
	}

	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			return fmt.Errorf("config: cache.addr is required when the cache is enabled")
		}
		if c.Cache.DB < 0 {
			return fmt.Errorf("config: cache.db must be ≥ 0, got %d", c.Cache.DB)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("config: cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}

	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	switch c.UI.DefaultLocale {
	case "en", "ne":
	default:
		return fmt.Errorf("config: ui.default_locale %q is invalid; expected en|ne", c.UI.DefaultLocale)
	}
	if c.UI.SessionTTL <= 0 {
		return fmt.Errorf("config: ui.session_ttl must be positive, got %s", c.UI.SessionTTL)
	}
	return nil
}
