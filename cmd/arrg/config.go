package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the generator configuration loaded from environment variables.
type Config struct {
	// Provider selection
	Provider string
	Model    string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Pipeline config
	WorkspaceDir  string
	MaxRounds     int
	RevisionLimit int
	Timeout       time.Duration
	RetryAttempts int
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Provider:      getEnvOrDefault("ARRG_PROVIDER", "anthropic"),
		Model:         os.Getenv("ARRG_MODEL"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		GoogleKey:     os.Getenv("GOOGLE_API_KEY"),
		WorkspaceDir:  os.Getenv("ARRG_WORKSPACE_DIR"),
		MaxRounds:     getEnvIntOrDefault("ARRG_MAX_ROUNDS", 5),
		RevisionLimit: getEnvIntOrDefault("ARRG_REVISION_LIMIT", 2),
		Timeout:       getEnvDurationOrDefault("ARRG_TIMEOUT", 10*time.Minute),
		RetryAttempts: getEnvIntOrDefault("ARRG_RETRY_ATTEMPTS", 3),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, or google)", c.Provider)
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
