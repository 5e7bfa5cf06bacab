package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
shopify:
  shop: my-shop
  access_token: shpat_test
  api_version: "2024-10"
  timeout: 10s
  retry_max: 2

logging:
  level: debug
  format: json

output:
  format: json

filter:
  presets:
    large: num(amount) >= 100
    open: status == "needs_response"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", sampleConfig)

	cfg, err := Load(path, writeFile(t, ".env", ""))
	require.NoError(t, err)

	assert.Equal(t, "my-shop", cfg.Shopify.Shop)
	assert.Equal(t, "shpat_test", cfg.Shopify.AccessToken)
	assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
	assert.Equal(t, 10*time.Second, cfg.Shopify.Timeout)
	assert.Equal(t, 2, cfg.Shopify.RetryMax)
	assert.Equal(t, "shopadmin", cfg.Shopify.UserAgent)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, `status == "needs_response"`, cfg.Filter.Presets["open"])
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", sampleConfig)
	t.Setenv("SHOPADMIN_SHOPIFY_ACCESS_TOKEN", "shpat_from_env")
	t.Setenv("SHOPADMIN_LOGGING_LEVEL", "warn")

	cfg, err := Load(path, writeFile(t, ".env", ""))
	require.NoError(t, err)
	assert.Equal(t, "shpat_from_env", cfg.Shopify.AccessToken)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "my-shop", cfg.Shopify.Shop)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "SHOPADMIN_SHOPIFY_SHOP"
	t.Cleanup(func() { os.Unsetenv(key) })
	t.Setenv("SHOPADMIN_SHOPIFY_ACCESS_TOKEN", "shpat_env")
	t.Chdir(t.TempDir())

	envFile := writeFile(t, ".env", key+"=dotenv-shop\n")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-shop", cfg.Shopify.Shop)
	assert.Equal(t, "2025-01", cfg.Shopify.APIVersion)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit config missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), writeFile(t, ".env", ""))
		require.Error(t, err)
	})

	t.Run("explicit env file missing", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.yaml", sampleConfig), filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error loading env file")
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.yaml", "shopify:\n  shop: my-shop\n"), writeFile(t, ".env", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access_token")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Shopify: ShopifyConfig{Shop: "my-shop", AccessToken: "shpat_x", Timeout: time.Second},
			Logging: LoggingConfig{Level: "info", Format: "console"},
			Output:  OutputConfig{Format: "table"},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:    "missing shop",
			modify:  func(c *Config) { c.Shopify.Shop = "" },
			wantErr: "shopify.shop is required",
		},
		{
			name:    "placeholder token",
			modify:  func(c *Config) { c.Shopify.AccessToken = "your-access-token-here" },
			wantErr: "shopify.access_token",
		},
		{
			name:    "negative retries",
			modify:  func(c *Config) { c.Shopify.RetryMax = -1 },
			wantErr: "retry_max",
		},
		{
			name:    "invalid level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
		{
			name:    "invalid output format",
			modify:  func(c *Config) { c.Output.Format = "csv" },
			wantErr: "invalid output format",
		},
		{
			name:    "empty preset",
			modify:  func(c *Config) { c.Filter.Presets = map[string]string{"x": " "} },
			wantErr: `filter preset "x" is empty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
