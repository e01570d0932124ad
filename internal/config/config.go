// Package config loads application configuration from an optional YAML file
// overridden by SHOPPULSE_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"` // console, file or both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig locates the raw CSV sources and the report output directory.
type DataConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
}

// AnalyticsConfig carries the numeric thresholds handed to the calculator.
type AnalyticsConfig struct {
	StarThreshold     int     `yaml:"star_threshold" envconfig:"STAR_THRESHOLD"`
	LateThresholdDays float64 `yaml:"late_threshold_days" envconfig:"LATE_THRESHOLD_DAYS"`
	TopN              int     `yaml:"top_n" envconfig:"TOP_N"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/shoppulse.log",
		},
		Data: DataConfig{
			Dir:        "ecommerce_data",
			ReportsDir: "reports",
		},
		Analytics: AnalyticsConfig{
			StarThreshold:     4,
			LateThresholdDays: 7,
			TopN:              3,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at configPath
// (skipped when empty or absent), then SHOPPULSE_* environment variables.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := envconfig.Process("SHOPPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	if c.Analytics.TopN < 1 {
		return fmt.Errorf("analytics top_n must be positive, got %d", c.Analytics.TopN)
	}
	if c.Analytics.StarThreshold < 1 || c.Analytics.StarThreshold > 5 {
		return fmt.Errorf("analytics star_threshold must be within 1..5, got %d", c.Analytics.StarThreshold)
	}
	if c.Analytics.LateThresholdDays <= 0 {
		return fmt.Errorf("analytics late_threshold_days must be positive, got %g", c.Analytics.LateThresholdDays)
	}
	return nil
}
