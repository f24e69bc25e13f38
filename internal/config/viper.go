// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/statement-csv/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Date styles accepted for exported dates.
const (
	DateStyleISO = "iso"
	DateStyleUK  = "uk"
)

// EnvPrefix is prepended to every environment variable override, e.g. STMT_LOG_LEVEL.
const EnvPrefix = "STMT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Extraction struct {
		MinTextChars         int     `mapstructure:"min_text_chars" yaml:"min_text_chars"`
		MaxDescriptionLength int     `mapstructure:"max_description_length" yaml:"max_description_length"`
		CreditThreshold      float64 `mapstructure:"credit_threshold" yaml:"credit_threshold"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Export struct {
		Format       string `mapstructure:"format" yaml:"format"`
		DateStyle    string `mapstructure:"date_style" yaml:"date_style"`
		ValidateJSON bool   `mapstructure:"validate_json" yaml:"validate_json"`
		Currency     string `mapstructure:"currency" yaml:"currency"`
	} `mapstructure:"export" yaml:"export"`

	Banks struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"banks" yaml:"banks"`

	Categories struct {
		File         string `mapstructure:"file" yaml:"file"`
		MappingsFile string `mapstructure:"mappings_file" yaml:"mappings_file"`
	} `mapstructure:"categories" yaml:"categories"`

	Batch struct {
		Workers     int  `mapstructure:"workers" yaml:"workers"`
		Consolidate bool `mapstructure:"consolidate" yaml:"consolidate"`
	} `mapstructure:"batch" yaml:"batch"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig loads configuration from defaults, the first config.yaml
// found in the search paths and STMT_* environment variables, in that order
// of increasing precedence.
func InitializeConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.statement-csv")
	v.AddConfigPath(".statement-csv")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return load(v)
}

// InitializeConfigFromFile behaves like InitializeConfig but reads exactly the given file.
func InitializeConfigFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return load(v)
}

// Default returns the built-in defaults, ignoring files and the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// defaults are static; a failure here is a programming error
		panic(fmt.Sprintf("config defaults do not unmarshal: %v", err))
	}
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func load(v *viper.Viper) (*Config, error) {
	// The API key is read from its conventional name, not the prefixed one.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("extraction.min_text_chars", 100)
	v.SetDefault("extraction.max_description_length", 100)
	v.SetDefault("extraction.credit_threshold", 500.0)

	v.SetDefault("export.format", "csv")
	v.SetDefault("export.date_style", DateStyleISO)
	v.SetDefault("export.validate_json", true)
	v.SetDefault("export.currency", "GBP")

	v.SetDefault("banks.file", "")

	v.SetDefault("categories.file", "")
	v.SetDefault("categories.mappings_file", "mappings.yaml")

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.consolidate", true)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.api_key", "")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Extraction.MinTextChars < 1 {
		return fmt.Errorf("extraction.min_text_chars must be positive, got: %d", config.Extraction.MinTextChars)
	}
	if config.Extraction.MaxDescriptionLength < 1 {
		return fmt.Errorf("extraction.max_description_length must be positive, got: %d", config.Extraction.MaxDescriptionLength)
	}
	if config.Extraction.CreditThreshold <= 0 {
		return fmt.Errorf("extraction.credit_threshold must be positive, got: %f", config.Extraction.CreditThreshold)
	}

	if err := validation.IsValidOutputFormat(config.Export.Format); err != nil {
		return fmt.Errorf("invalid export format: %w", err)
	}
	if config.Export.DateStyle != DateStyleISO && config.Export.DateStyle != DateStyleUK {
		return fmt.Errorf("invalid export date style: %s (must be '%s' or '%s')", config.Export.DateStyle, DateStyleISO, DateStyleUK)
	}
	if len(config.Export.Currency) != 3 {
		return fmt.Errorf("export.currency must be an ISO 4217 code, got: %s", config.Export.Currency)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}
