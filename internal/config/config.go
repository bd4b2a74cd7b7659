// Package config loads CLI settings from flags, DBCANVAS_* environment
// variables and an optional .dbcanvas.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tordrt/dbcanvas/internal/persist"
	"github.com/tordrt/dbcanvas/internal/store"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Defaults
const (
	DefaultStore     = "file://.dbcanvas"
	DefaultLogFormat = LogFormatText
	EnvPrefix        = "DBCANVAS"
	FileName         = ".dbcanvas"
)

type Config struct {
	Store         string        `json:"store" mapstructure:"store"`
	Key           string        `json:"key" mapstructure:"key"`
	LogFormat     string        `json:"log_format" mapstructure:"log_format"`
	DeletionDelay time.Duration `json:"deletion_delay" mapstructure:"deletion_delay"`
}

// SetDefaults registers every key with v so environment variables are
// picked up during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store", DefaultStore)
	v.SetDefault("key", persist.DefaultKey)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("deletion_delay", (250 * time.Millisecond).String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ReadFile reads path, or .dbcanvas.yaml from the working directory when
// path is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(FileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load unmarshals v and fills anything left empty
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Store == "" {
		cfg.Store = DefaultStore
	}
	if cfg.Key == "" {
		cfg.Key = persist.DefaultKey
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log format: %s (expected %s or %s)", c.LogFormat, LogFormatText, LogFormatJSON)
	}

	if _, _, err := store.ParseURL(c.Store); err != nil {
		return err
	}

	if c.DeletionDelay < 0 {
		return fmt.Errorf("deletion_delay cannot be negative")
	}

	return nil
}
