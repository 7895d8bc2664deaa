package config

import (
	"os"
	"strconv"

	"goattend/internal/errors"
	"goattend/models"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	AI       models.AIConfig
	Data     DataConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Ops      OpsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds analysis engine settings
type DataConfig struct {
	// ScanRows bounds the fallback header scan.
	ScanRows int
	// SampleRows bounds the grid prefix sent to the classifier.
	SampleRows int
	// MaxUploadMB caps accepted spreadsheet size.
	MaxUploadMB int
}

// RedisConfig holds the optional classifier cache settings. An empty Addr
// disables the cache.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLMinutes int
}

// DatabaseConfig holds the optional usage-ledger database settings. An empty
// URL disables usage persistence.
type DatabaseConfig struct {
	URL string
}

// OpsConfig holds the secondary operations API settings.
type OpsConfig struct {
	Enabled bool
	Port    string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		AI: models.AIConfig{
			GeminiKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel: getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL:     getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 4000),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.0),
			TimeoutMs:   getEnvIntOrDefault("AI_TIMEOUT_MS", 60000),
			PromptsDir:  getEnvOrDefault("PROMPTS_DIR", ""),
		},
		Data: DataConfig{
			ScanRows:    getEnvIntOrDefault("HEADER_SCAN_ROWS", 10),
			SampleRows:  getEnvIntOrDefault("CLASSIFIER_SAMPLE_ROWS", 30),
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         getEnvIntOrDefault("REDIS_DB", 0),
			TTLMinutes: getEnvIntOrDefault("CLASSIFIER_CACHE_TTL_MINUTES", 60),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Ops: OpsConfig{
			Enabled: getEnvBoolOrDefault("OPS_API_ENABLED", false),
			Port:    getEnvOrDefault("OPS_API_PORT", "8081"),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if config.Data.ScanRows <= 0 {
		return errors.ConfigInvalid("HEADER_SCAN_ROWS must be positive")
	}
	if config.Data.SampleRows <= 0 {
		return errors.ConfigInvalid("CLASSIFIER_SAMPLE_ROWS must be positive")
	}
	if config.Data.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
