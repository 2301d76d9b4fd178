// Package config loads tool configuration from a YAML file plus KAIZEN_*
// environment overrides and builds the process logger.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the full tool configuration.
type Config struct {
	// StorageRoot is the base directory for feedback, results, plans, and
	// artifacts.
	StorageRoot string `yaml:"storage_root" mapstructure:"storage_root"`

	// EvalRoot holds per-evaluation scratch directories.
	EvalRoot string `yaml:"eval_root" mapstructure:"eval_root"`

	// EvalTimeoutSecs caps one solution evaluation subprocess.
	EvalTimeoutSecs int `yaml:"eval_timeout_secs" mapstructure:"eval_timeout_secs"`

	// Catalog is an optional path to a YAML problem catalog. Empty means
	// the built-in default catalog.
	Catalog string `yaml:"catalog" mapstructure:"catalog"`

	// Benchmarks holds per-family run option blocks, decoded into
	// benchmark.Options when that family is run. CLI flags override them.
	Benchmarks map[string]map[string]any `yaml:"benchmarks" mapstructure:"benchmarks"`

	OpenAI OpenAIConfig `yaml:"openai" mapstructure:"openai"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// OpenAIConfig configures the OpenAI generation backend.
type OpenAIConfig struct {
	APIKey            string `yaml:"api_key" mapstructure:"api_key"`
	Model             string `yaml:"model" mapstructure:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	TimeoutSecs       int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional config file and environment.
// path overrides the default search when non-empty; a missing default file
// is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("kaizen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("KAIZEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage_root", ".kaizen")
	v.SetDefault("eval_root", ".kaizen/eval")
	v.SetDefault("eval_timeout_secs", 10)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.requests_per_minute", 60)
	v.SetDefault("openai.timeout_secs", 120)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if path != "" || !notFound {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// BuildLogger constructs the process logger from the log configuration.
func BuildLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
