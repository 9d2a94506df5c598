package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. X2REST_X2_API_KEY
const EnvPrefix = "X2REST"

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
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
			v.AddConfigPath(filepath.Join(home, ".x2rest"))
		}

		// Check /etc
		v.AddConfigPath("/etc/x2rest/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// no file; defaults and environment only
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// X2 defaults
	v.SetDefault("x2.url", "")
	v.SetDefault("x2.user", "")
	v.SetDefault("x2.api_key", "")
	v.SetDefault("x2.purify", true)
	v.SetDefault("x2.timeout", "30s")

	// Contact defaults
	v.SetDefault("contacts.verify_dropdowns", true)
	v.SetDefault("contacts.email_fields", []string{"email"})
	v.SetDefault("contacts.mapper_file", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.X2.URL == "" {
		return fmt.Errorf("x2.url is required")
	}
	if !strings.HasPrefix(cfg.X2.URL, "http://") && !strings.HasPrefix(cfg.X2.URL, "https://") {
		return fmt.Errorf("x2.url must start with http:// or https://")
	}

	if cfg.X2.User == "" {
		return fmt.Errorf("x2.user is required")
	}

	if cfg.X2.APIKey == "" || cfg.X2.APIKey == "your-api-key-here" {
		return fmt.Errorf("x2.api_key must be set to a valid API key")
	}

	if cfg.X2.Timeout <= 0 {
		return fmt.Errorf("x2.timeout must be positive")
	}

	if cfg.Contacts.MapperFile != "" {
		if _, err := os.Stat(cfg.Contacts.MapperFile); err != nil {
			return fmt.Errorf("contacts.mapper_file: %w", err)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
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

	return nil
}
