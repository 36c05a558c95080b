// Package config loads client settings from an optional config file and
// BMM_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	LogFile     string
	Debug       bool
	ServeAddr   string
}

// Load reads config.yaml from the user config dir if present, then lets
// environment variables (BMM_API_BASE_URL, ...) override.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", "http://localhost:8080/api")
	v.SetDefault("http_timeout", "12s")
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("serve_addr", ":8080")

	if dir, err := os.UserConfigDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(dir, "bookmymovie-cli"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	v.SetEnvPrefix("BMM")
	v.AutomaticEnv()

	cfg := Config{
		APIBaseURL:  v.GetString("api_base_url"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		LogFile:     v.GetString("log_file"),
		Debug:       v.GetBool("debug"),
		ServeAddr:   v.GetString("serve_addr"),
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 12 * time.Second
	}
	return cfg, nil
}
