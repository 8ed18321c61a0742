// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LLMProvider identifies a supported text-generation backend.
type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Search SearchConfig `mapstructure:"search" yaml:"search"`
	Patch  PatchConfig  `mapstructure:"patch" yaml:"patch"`
	Oracle OracleConfig `mapstructure:"oracle" yaml:"oracle"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SearchConfig governs which files the source searcher visits.
type SearchConfig struct {
	Extensions  []string `mapstructure:"extensions" yaml:"extensions"`
	ExcludeDirs []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs"`
}

// PatchConfig governs how patched files are written back.
type PatchConfig struct {
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run"`
}

// OracleConfig configures the text-repair oracle used by the auto-healer.
// When disabled, a failed validation discards the patch without a heal
// attempt.
type OracleConfig struct {
	Enabled bool           `mapstructure:"enabled" yaml:"enabled"`
	Model   LLMModelConfig `mapstructure:"model" yaml:"model"`
}

// LLMModelConfig defines the configuration for a single LLM.
type LLMModelConfig struct {
	Provider    LLMProvider   `mapstructure:"provider" yaml:"provider"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float32       `mapstructure:"temperature" yaml:"temperature"`
	TopP        float32       `mapstructure:"top_p" yaml:"top_p"`
	TopK        int           `mapstructure:"top_k" yaml:"top_k"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "stitch-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("search.extensions", []string{".html", ".htm", ".jsx", ".tsx", ".vue"})
	v.SetDefault("search.exclude_dirs", []string{
		"node_modules", "dist", "build", "out", "coverage", ".git", ".next", ".nuxt",
	})

	v.SetDefault("patch.dry_run", false)

	v.SetDefault("oracle.enabled", false)
	v.SetDefault("oracle.model.provider", string(ProviderGemini))
	v.SetDefault("oracle.model.model", "gemini-2.0-flash")
	v.SetDefault("oracle.model.api_timeout", 60*time.Second)
	v.SetDefault("oracle.model.temperature", 0.1)
	v.SetDefault("oracle.model.max_tokens", 8192)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if len(c.Search.Extensions) == 0 {
		return fmt.Errorf("search.extensions must not be empty")
	}
	if c.Oracle.Enabled {
		if c.Oracle.Model.Provider == "" {
			return fmt.Errorf("oracle.model.provider is required when the oracle is enabled")
		}
		if c.Oracle.Model.APIKey == "" {
			return fmt.Errorf("oracle.model.api_key is required when the oracle is enabled")
		}
	}
	return nil
}
