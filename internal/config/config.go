package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configFileBase        = "activity_board_config"
	DefaultServerAddr     = ":8080"
	DefaultMessageTimeout = 5 * time.Second
	DefaultTitle          = "Mergington High School Activities"
)

// BackendConfig describes the activities API
type BackendConfig struct {
	BaseURL string `yaml:"baseURL" validate:"required,url"`
	// Timeout bounds each request; zero means no timeout
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}

// ServerConfig describes the web front
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// BoardConfig controls how the board is presented
type BoardConfig struct {
	MessageTimeout time.Duration `yaml:"messageTimeout,omitempty" validate:"gt=0"`
	Title          string        `yaml:"title,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Backend BackendConfig `yaml:"backend" validate:"required"`
	Server  ServerConfig  `yaml:"server"`
	Board   BoardConfig   `yaml:"board"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads the config for an environment.
// For example, env="test" looks for "activity_board_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills in optional fields that were left empty
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Board.MessageTimeout == 0 {
		cfg.Board.MessageTimeout = DefaultMessageTimeout
	}
	if cfg.Board.Title == "" {
		cfg.Board.Title = DefaultTitle
	}
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

func configFileName(env string) string {
	if env == "" {
		return configFileBase + ".yaml"
	}
	return configFileBase + "." + env + ".yaml"
}

// findConfigFile searches the current directory and then the home directory
func findConfigFile(env string) (string, error) {
	name := configFileName(env)

	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", errors.New("config file " + name + " not found in current directory or home directory")
}
