package config

import (
	"os"
	"strconv"

	"qisim/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Paths      PathConfig
	Report     ReportConfig
	LogLevel   string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// SimulationConfig holds cohort generation defaults and limits
type SimulationConfig struct {
	Seed                int64 // 0 requests an entropy seed per run
	DefaultParticipants int
	MaxParticipants     int
}

// PathConfig holds file system paths
type PathConfig struct {
	ExportDir string
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	Title string
}

// DefaultReportTitle heads rendered reports when REPORT_TITLE is unset
const DefaultReportTitle = "Quality Improvement Analysis"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Simulation: *loadSimulationConfig(),
		Paths:      *loadPathConfig(),
		Report:     *loadReportConfig(),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		Seed:                getEnvInt64OrDefault("SIM_SEED", 0),
		DefaultParticipants: getEnvIntOrDefault("SIM_DEFAULT_PARTICIPANTS", 100),
		MaxParticipants:     getEnvIntOrDefault("SIM_MAX_PARTICIPANTS", 50000),
	}
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		ExportDir: getEnvOrDefault("EXPORT_DIR", "./exports"),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		Title: getEnvOrDefault("REPORT_TITLE", DefaultReportTitle),
	}
}

func validateConfig(config *Config) error {
	if config.Simulation.MaxParticipants < 1 {
		return errors.ConfigInvalid("SIM_MAX_PARTICIPANTS must be at least 1")
	}
	if config.Simulation.DefaultParticipants < 0 {
		return errors.ConfigInvalid("SIM_DEFAULT_PARTICIPANTS must not be negative")
	}
	if config.Simulation.DefaultParticipants > config.Simulation.MaxParticipants {
		config.Simulation.DefaultParticipants = config.Simulation.MaxParticipants
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
