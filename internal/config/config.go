package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Config holds the environment-provided application settings
type Config struct {
	Port        int
	APIKey      string
	StorageType string
	RedisURL    string

	TranslatorEndpoint string
	TranslatorKey      string
	TranslatorRegion   string

	ContentSafetyEndpoint string
	ContentSafetyKey      string
}

// Default returns the configuration defaults
func Default() Config {
	return Config{
		Port:             8080,
		StorageType:      "memory",
		RedisURL:         "redis://localhost:6379",
		TranslatorRegion: "italynorth",
	}
}

// Load builds the configuration from the environment
func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PP_PORT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Port = value
		}
	}
	if raw := os.Getenv("PP_API_KEY"); raw != "" {
		cfg.APIKey = raw
	}
	if raw := os.Getenv("STORAGE_TYPE"); raw != "" {
		cfg.StorageType = raw
	}
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		cfg.RedisURL = raw
	}
	if raw := os.Getenv("TRANSLATOR_ENDPOINT"); raw != "" {
		cfg.TranslatorEndpoint = raw
	}
	if raw := os.Getenv("TRANSLATOR_KEY"); raw != "" {
		cfg.TranslatorKey = raw
	}
	if raw := os.Getenv("TRANSLATOR_REGION"); raw != "" {
		cfg.TranslatorRegion = raw
	}
	if raw := os.Getenv("CONTENT_SAFETY_ENDPOINT"); raw != "" {
		cfg.ContentSafetyEndpoint = raw
	}
	if raw := os.Getenv("CONTENT_SAFETY_KEY"); raw != "" {
		cfg.ContentSafetyKey = raw
	}
	return cfg
}
