package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment variables that override the config file
const EnvPrefix = "ATHLETE"

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Search SearchConfig `yaml:"search"`
	AWS    AWSConfig    `yaml:"aws"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// AuthConfig holds session configuration
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" envconfig:"TOKEN_TTL"`
	AutoRegister bool          `yaml:"auto_register" envconfig:"AUTO_REGISTER"`
}

// SearchConfig holds search configuration
type SearchConfig struct {
	HistoryLimit int `yaml:"history_limit" envconfig:"HISTORY_LIMIT"`
}

// AWSConfig holds video storage configuration
type AWSConfig struct {
	Region    string `yaml:"region"`
	S3Bucket  string `yaml:"s3_bucket" envconfig:"S3_BUCKET"`
	AccessKey string `yaml:"access_key" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"SECRET_KEY"`
	Endpoint  string `yaml:"endpoint"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used for fields missing from the file
func Default() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Auth: AuthConfig{
			JWTSecret:    "change-me",
			TokenTTL:     30 * 24 * time.Hour,
			AutoRegister: true,
		},
		Search: SearchConfig{HistoryLimit: 5},
		AWS:    AWSConfig{Region: "us-east-1"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file and applies ATHLETE_* environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return &cfg, nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
