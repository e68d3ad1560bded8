package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
)

// envPrefix is the prefix of every environment override, e.g.
// SABDA_INFERENCE_BASE_URL.
const envPrefix = "SABDA"

// configName is the base name searched for when no path is given.
const configName = "sabdamanthan"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

// searchPaths lists the directories probed for sabdamanthan.yaml, or
// config.yaml under the dot-directories.
func searchPaths(v *viper.Viper) {
	v.SetConfigName(configName)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".sabdamanthan"))
	}
	v.AddConfigPath("/etc/sabdamanthan")
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment.  A missing file is not an error.  Variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from configPath, or from the search paths when
// configPath is empty, then applies SABDA_* overrides, defaults and
// validation.  With no path and no file found, defaults plus environment
// are used.
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	} else {
		searchPaths(v)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: failed to read config: %w", err)
			}
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from SABDA_* variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch re-reads configPath whenever it changes and calls onChange with the
// new configuration.  Only settings that are safe to change at runtime
// should be applied by the caller.  A change that fails to parse or validate
// is logged and skipped.  Watch does not block.
func Watch(configPath string, log logging.Logger, onChange func(*Config)) error {
	if configPath == "" {
		return fmt.Errorf("config: watch requires a config file")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			log.Warn("config reload rejected", logging.String("file", e.Name), logging.Err(err))
			return
		}
		log.Info("config reloaded", logging.String("file", e.Name), logging.String("op", e.Op.String()))
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
