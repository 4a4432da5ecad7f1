package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// APIConfig holds the Cloudmersive connection settings
type APIConfig struct {
	BasePath       string            `mapstructure:"base_path"`
	APIKey         string            `mapstructure:"api_key"`
	Timeout        time.Duration     `mapstructure:"timeout"`
	Cache          bool              `mapstructure:"cache"`
	EnableCookies  bool              `mapstructure:"enable_cookies"`
	DefaultHeaders map[string]string `mapstructure:"default_headers"`
	MaxRetries     int               `mapstructure:"max_retries"`
	RetryDelay     time.Duration     `mapstructure:"retry_delay"`
	UserAgent      string            `mapstructure:"user_agent"`
}

// BatchConfig controls bulk conversions
type BatchConfig struct {
	Concurrency int  `mapstructure:"concurrency"`
	Transcode   bool `mapstructure:"transcode"`
	Overwrite   bool `mapstructure:"overwrite"`
}

// FilterConfig contains named filter presets and extension groups for inGroup()
type FilterConfig struct {
	Presets map[string]string   `mapstructure:"presets"`
	Groups  map[string][]string `mapstructure:"groups"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// MetricsConfig controls where request metrics are written
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}
