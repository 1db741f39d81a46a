package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the server settings. Values come from an optional YAML file,
// then environment variables override them.
type Config struct {
	Port        string    `yaml:"port" validate:"required,numeric"`
	DefaultSize int       `yaml:"default_size" validate:"gte=1,ltefield=MaxSize"`
	MaxSize     int       `yaml:"max_size" validate:"gte=1,lte=50"`
	LogLevel    string    `yaml:"log_level" validate:"oneof=debug info warn error"`
	GCP         GCPConfig `yaml:"gcp"`
	RateLimit   RateLimit `yaml:"rate_limit"`
}

// GCPConfig configures the Gemini client used for photo import. An empty
// ProjectID disables the import.
type GCPConfig struct {
	ProjectID string `yaml:"project_id"`
	Region    string `yaml:"region"`
	Model     string `yaml:"model"`
}

// RateLimit sets per-IP limits for the expensive and the chatty routes.
type RateLimit struct {
	UploadsPerMinute int `yaml:"uploads_per_minute" validate:"gte=1"`
	EditsPerSecond   int `yaml:"edits_per_second" validate:"gte=1"`
}

// validate is shared by config loading and request decoding.
var validate = validator.New()

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Port:        "8080",
		DefaultSize: 5,
		MaxSize:     25,
		LogLevel:    "info",
		GCP: GCPConfig{
			Region: defaultRegion,
			Model:  defaultModel,
		},
		RateLimit: RateLimit{
			UploadsPerMinute: 5,
			EditsPerSecond:   60,
		},
	}
}

// LoadConfig reads path (if non-empty), applies environment overrides and
// validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GCP_PROJECT_ID"); v != "" {
		cfg.GCP.ProjectID = v
	}
	if v := os.Getenv("GCP_REGION"); v != "" {
		cfg.GCP.Region = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
