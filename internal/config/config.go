// Package config holds the converter settings and the preview server
// configuration.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultInputFile = "IIR_OCOMM-非活性成分字段描述.xlsx"
	DefaultOutputDir = "web_app"

	DataFileName    = "data.json"
	MappingFileName = "field_mapping.json"
	StatsFileName   = "stats.json"
)

// Config holds the converter settings. The converter takes no flags or
// environment variables; these are fixed.
type Config struct {
	InputFile string
	OutputDir string
	LogLevel  string
}

// Default returns the converter settings.
func Default() *Config {
	return &Config{
		InputFile: DefaultInputFile,
		OutputDir: DefaultOutputDir,
		LogLevel:  "info",
	}
}

func (c *Config) DataPath() string    { return filepath.Join(c.OutputDir, DataFileName) }
func (c *Config) MappingPath() string { return filepath.Join(c.OutputDir, MappingFileName) }
func (c *Config) StatsPath() string   { return filepath.Join(c.OutputDir, StatsFileName) }

// ServerConfig holds the preview server configuration
type ServerConfig struct {
	Port     string
	Address  string
	WebDir   string
	LogLevel string
}

// LoadServer reads the preview server configuration from the environment,
// after loading a .env file from the working directory if there is one.
func LoadServer() (*ServerConfig, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := &ServerConfig{
		Port:     getEnvWithDefault("PORT", "8000"),
		Address:  getEnvWithDefault("ADDRESS", "127.0.0.1"),
		WebDir:   getEnvWithDefault("WEB_DIR", DefaultOutputDir),
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
	}

	if err := validateServerConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Address, c.Port)
}

func validateServerConfig(cfg *ServerConfig) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if strings.TrimSpace(cfg.WebDir) == "" {
		return fmt.Errorf("invalid WEB_DIR: WEB_DIR cannot be empty")
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "localhost" {
		return nil
	}

	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
