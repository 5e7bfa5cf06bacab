package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/shopadmin/shopify"
)

// EnvPrefix prefixes every environment override, e.g. SHOPADMIN_SHOPIFY_ACCESS_TOKEN
const EnvPrefix = "SHOPADMIN"

// Load loads the configuration from file and environment. Variables from the given
// .env files (default ".env") are loaded first and never override the real
// environment. The config file is optional unless configPath is set.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".shopadmin"))
		}

		// Check /etc
		v.AddConfigPath("/etc/shopadmin/")
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

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFiles(files []string) error {
	explicit := len(files) > 0
	if !explicit {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error loading env file %s: %w", f, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Shopify defaults. Empty keys are registered so environment overrides apply.
	v.SetDefault("shopify.shop", "")
	v.SetDefault("shopify.access_token", "")
	v.SetDefault("shopify.api_version", shopify.DefaultAPIVersion)
	v.SetDefault("shopify.timeout", shopify.DefaultTimeout)
	v.SetDefault("shopify.retry_max", 0)
	v.SetDefault("shopify.user_agent", shopify.DefaultUserAgent)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("output.format", "table")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Shopify.Shop == "" {
		return fmt.Errorf("shopify.shop is required")
	}

	if cfg.Shopify.AccessToken == "" || cfg.Shopify.AccessToken == "your-access-token-here" {
		return fmt.Errorf("shopify.access_token must be set to a valid access token")
	}

	if cfg.Shopify.RetryMax < 0 {
		return fmt.Errorf("shopify.retry_max must not be negative")
	}

	if cfg.Shopify.Timeout < 0 {
		return fmt.Errorf("shopify.timeout must not be negative")
	}

	// Validate logging level
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

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if err := ValidateOutputFormat(cfg.Output.Format); err != nil {
		return err
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q is empty", name)
		}
	}

	return nil
}

// ValidateOutputFormat checks an output format given in config or on the command line
func ValidateOutputFormat(format string) error {
	switch format {
	case "table", "json":
		return nil
	}
	return fmt.Errorf("invalid output format: %s", format)
}
