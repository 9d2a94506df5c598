package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	X2       X2Config       `mapstructure:"x2"`
	Contacts ContactsConfig `mapstructure:"contacts"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// X2Config holds X2 API connection details
type X2Config struct {
	URL     string        `mapstructure:"url"`
	User    string        `mapstructure:"user"`
	APIKey  string        `mapstructure:"api_key"`
	Purify  bool          `mapstructure:"purify"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ContactsConfig holds defaults for contact writes and duplicate lookups
type ContactsConfig struct {
	VerifyDropdowns bool     `mapstructure:"verify_dropdowns"`
	EmailFields     []string `mapstructure:"email_fields"`
	// MapperFile points at a YAML or JSON file of caller key to field
	// name. It lives outside this file because viper lowercases map keys.
	MapperFile string `mapstructure:"mapper_file"`
}

// FilterConfig contains named filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
