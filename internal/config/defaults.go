package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize     = 64 << 10

	DefaultInferenceBaseURL   = "http://localhost:8000"
	DefaultContinuationPrefix = "##"
	DefaultMaskToken          = "<mask>"

	DefaultCacheAddr        = "localhost:6379"
	DefaultCachePoolSize    = 10
	DefaultCacheDialTimeout = 5 * time.Second
	DefaultCacheTTL         = 10 * time.Minute
	DefaultCachePrefix      = "sabda:"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "sabdamanthan"
	DefaultMetricsPath      = "/metrics"

	DefaultLocale     = "en"
	DefaultSessionTTL = 30 * time.Minute
)

// DefaultCORSOrigins are the development origins the model service itself
// allows.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:8000",
	"http://localhost",
}

// Default returns a fully populated configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Inference.ContinuationPrefix = DefaultContinuationPrefix
	cfg.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields of cfg.  Explicit values win.
// The continuation prefix is left alone because empty is meaningful.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}

	if cfg.Inference.BaseURL == "" && !cfg.Inference.Mock {
		cfg.Inference.BaseURL = DefaultInferenceBaseURL
	}
	if cfg.Inference.MaskToken == "" {
		cfg.Inference.MaskToken = DefaultMaskToken
	}

	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultCacheAddr
	}
	if cfg.Cache.PoolSize == 0 {
		cfg.Cache.PoolSize = DefaultCachePoolSize
	}
	if cfg.Cache.DialTimeout == 0 {
		cfg.Cache.DialTimeout = DefaultCacheDialTimeout
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = DefaultCachePrefix
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.UI.DefaultLocale == "" {
		cfg.UI.DefaultLocale = DefaultLocale
	}
	if cfg.UI.SessionTTL == 0 {
		cfg.UI.SessionTTL = DefaultSessionTTL
	}
	if cfg.UI.CORSOrigins == nil {
		cfg.UI.CORSOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
}

// setViperDefaults registers every key with viper.  Registration is what
// lets AutomaticEnv resolve SABDA_* variables during Unmarshal.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.max_body_size", DefaultMaxBodySize)

	v.SetDefault("inference.base_url", DefaultInferenceBaseURL)
	v.SetDefault("inference.timeout", time.Duration(0))
	v.SetDefault("inference.mock", false)
	v.SetDefault("inference.continuation_prefix", DefaultContinuationPrefix)
	v.SetDefault("inference.mask_token", DefaultMaskToken)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", DefaultCacheAddr)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.pool_size", DefaultCachePoolSize)
	v.SetDefault("cache.dial_timeout", DefaultCacheDialTimeout)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.prefix", DefaultCachePrefix)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("log.error_output_paths", []string{"stderr"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)

	v.SetDefault("ui.default_locale", DefaultLocale)
	v.SetDefault("ui.session_ttl", DefaultSessionTTL)
	v.SetDefault("ui.cors_origins", DefaultCORSOrigins)
}
