package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/cloudconv/cloudmersive"
)

// EnvPrefix prefixes every environment override, e.g. CLOUDCONV_API_KEY
const EnvPrefix = "CLOUDCONV"

const placeholderAPIKey = "your-api-key-here"

// Load loads the configuration from file and environment. A missing config
// file is only an error when configPath is given explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.api_key", EnvPrefix+"_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cloudconv"))
		}
		v.AddConfigPath("/etc/cloudconv/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_path", cloudmersive.DefaultBasePath)
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.timeout", cloudmersive.DefaultTimeout)
	v.SetDefault("api.cache", true)
	v.SetDefault("api.enable_cookies", false)
	v.SetDefault("api.max_retries", 0)
	v.SetDefault("api.retry_delay", "1s")
	v.SetDefault("api.user_agent", "")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.transcode", false)
	v.SetDefault("batch.overwrite", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("metrics.textfile", "")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.BasePath == "" {
		return fmt.Errorf("api.base_path is required")
	}

	if cfg.API.APIKey == "" || cfg.API.APIKey == placeholderAPIKey {
		return fmt.Errorf("api.api_key must be set to a valid API key")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", cfg.API.Timeout)
	}

	if cfg.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries cannot be negative")
	}

	if cfg.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be positive, got %d", cfg.Batch.Concurrency)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
