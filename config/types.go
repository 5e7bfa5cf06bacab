package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Shopify ShopifyConfig `mapstructure:"shopify"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
}

// ShopifyConfig holds the shop connection details
type ShopifyConfig struct {
	Shop        string        `mapstructure:"shop"`
	AccessToken string        `mapstructure:"access_token"`
	APIVersion  string        `mapstructure:"api_version"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RetryMax    int           `mapstructure:"retry_max"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FilterConfig contains named filter expressions usable as --where @name
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}
