// Package config provides Viper-based hierarchical configuration for the
// pipeline, plus .env bootstrap and logging setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var envOnce sync.Once

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Source struct {
		// Senders is the case-insensitive allow-list of mobile-money
		// senders; messages from anyone else are dropped before parsing.
		Senders        []string `mapstructure:"senders" yaml:"senders"`
		LookbackMonths int      `mapstructure:"lookback_months" yaml:"lookback_months"`
		RetryAttempts  int      `mapstructure:"retry_attempts" yaml:"retry_attempts"`
		RetryBackoffMS int      `mapstructure:"retry_backoff_ms" yaml:"retry_backoff_ms"`
	} `mapstructure:"source" yaml:"source"`

	Parser struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"parser" yaml:"parser"`

	Insights struct {
		RecurringMinOccurrences int `mapstructure:"recurring_min_occurrences" yaml:"recurring_min_occurrences"`
		SuggestionMinGroupSize  int `mapstructure:"suggestion_min_group_size" yaml:"suggestion_min_group_size"`
		TopMerchants            int `mapstructure:"top_merchants" yaml:"top_merchants"`
	} `mapstructure:"insights" yaml:"insights"`

	Store struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"store" yaml:"store"`

	Taxonomy struct {
		// File is an optional YAML overlay extending the built-in
		// keyword taxonomy.
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"taxonomy" yaml:"taxonomy"`

	Mapping struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"mapping" yaml:"mapping"`
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then MPESA_-prefixed env vars.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.mpesa-insights")
	v.AddConfigPath(".mpesa-insights")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MPESA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("source.senders", []string{"MPESA"})
	v.SetDefault("source.lookback_months", 6)
	v.SetDefault("source.retry_attempts", 3)
	v.SetDefault("source.retry_backoff_ms", 500)

	v.SetDefault("parser.workers", 0) // 0 means runtime.NumCPU

	v.SetDefault("insights.recurring_min_occurrences", 3)
	v.SetDefault("insights.suggestion_min_group_size", 3)
	v.SetDefault("insights.top_merchants", 5)

	v.SetDefault("store.file", "transactions.json")
	v.SetDefault("taxonomy.file", "")
	v.SetDefault("mapping.file", "mappings.yaml")
}

// validate checks the configuration values.
func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.Source.Senders) == 0 {
		return fmt.Errorf("source.senders must not be empty")
	}

	if config.Source.LookbackMonths < 1 {
		return fmt.Errorf("source.lookback_months must be at least 1, got: %d", config.Source.LookbackMonths)
	}

	if config.Source.RetryAttempts < 1 {
		return fmt.Errorf("source.retry_attempts must be at least 1, got: %d", config.Source.RetryAttempts)
	}

	if config.Insights.RecurringMinOccurrences < 1 {
		return fmt.Errorf("insights.recurring_min_occurrences must be at least 1, got: %d", config.Insights.RecurringMinOccurrences)
	}

	if config.Insights.SuggestionMinGroupSize < 1 {
		return fmt.Errorf("insights.suggestion_min_group_size must be at least 1, got: %d", config.Insights.SuggestionMinGroupSize)
	}

	if config.Insights.TopMerchants < 1 {
		return fmt.Errorf("insights.top_merchants must be at least 1, got: %d", config.Insights.TopMerchants)
	}

	return nil
}

// ConfigureLogging builds a logrus logger from the Config.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or the project root.
func LoadEnv() {
	envOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}

		// Best effort; a malformed .env should not stop the CLI.
		_ = godotenv.Load(envFile)
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set.
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
