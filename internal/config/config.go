package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/unnatikoppikar/SchoolReportGenerator/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Processing ProcessingConfig
	Converter  ConverterConfig
	Server     ServerConfig
	Paths      PathConfig
}

// ProcessingConfig holds record extraction and normalization settings
type ProcessingConfig struct {
	SkipRows       int      // leading header rows that are not records
	NullSentinel   string   // replacement for null-like cell values
	NullIndicators []string // case/space-folded tokens treated as null
	Workers        int      // record fan-out; converter access stays serialized
}

// ConverterConfig holds PDF conversion settings
type ConverterConfig struct {
	ChromePath string
	Timeout    time.Duration // per-conversion budget
	NoSandbox  bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds default file system locations
type PathConfig struct {
	TemplateFile string
	OutputDir    string
	WorkDir      string // intermediate filled documents
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Processing: ProcessingConfig{
			SkipRows:       getEnvIntOrDefault("SKIP_ROWS", 4),
			NullSentinel:   getEnvOrDefault("NULL_SENTINEL", "---"),
			NullIndicators: getEnvListOrDefault("NULL_INDICATORS", []string{"NAN", "NONE", "NA", "NULL", ""}),
			Workers:        getEnvIntOrDefault("WORKERS", 1),
		},
		Converter: ConverterConfig{
			ChromePath: getEnvOrDefault("CHROME_PATH", ""),
			Timeout:    getEnvDurationOrDefault("CONVERT_TIMEOUT", 60*time.Second),
			NoSandbox:  getEnvBoolOrDefault("CHROME_NO_SANDBOX", false),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Paths: PathConfig{
			TemplateFile: getEnvOrDefault("TEMPLATE_FILE", ""),
			OutputDir:    getEnvOrDefault("OUTPUT_DIR", "report_cards"),
			WorkDir:      getEnvOrDefault("WORK_DIR", "filled"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Processing.SkipRows < 0 {
		return errors.ConfigInvalid("SKIP_ROWS must be non-negative")
	}
	if config.Processing.Workers < 1 {
		return errors.ConfigInvalid("WORKERS must be at least 1")
	}
	if config.Converter.Timeout <= 0 {
		return errors.ConfigInvalid("CONVERT_TIMEOUT must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma-separated env value. An empty token is
// kept as-is so the empty string can stay in the null indicator set.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return defaultValue
}
