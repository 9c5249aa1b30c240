// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full process configuration
type Config struct {
	Addr        string `validate:"required"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogFormat   string `validate:"oneof=json console"`
	CatalogPath string

	BackendURL string `validate:"omitempty,url"`

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string  `validate:"omitempty,url"`
	OpenAIMaxTokens   int     `validate:"gte=0"`
	OpenAITemperature float64 `validate:"gte=0,lte=2"`

	RemoteTimeout time.Duration `validate:"gte=0"`
	RemoteRPS     float64       `validate:"gte=0"`
	RemoteBurst   int           `validate:"gte=0"`
}

// Load reads the given .env files (missing files are ignored), then the
// environment. Variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        getEnvWithDefault("PIPELINEPILOT_ADDR", ":8080"),
		LogLevel:    strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnvWithDefault("LOG_FORMAT", "json")),
		CatalogPath: os.Getenv("PIPELINEPILOT_CATALOG"),

		BackendURL: getEnvWithDefault("PIPELINE_BACKEND_URL", os.Getenv("PYTHON_BACKEND_URL")),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		OpenAIMaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 1500),
		OpenAITemperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),

		RemoteTimeout: getEnvAsDuration("REMOTE_TIMEOUT", 60*time.Second),
		RemoteRPS:     getEnvAsFloat("REMOTE_RPS", 0),
		RemoteBurst:   getEnvAsInt("REMOTE_BURST", 1),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// HasBackend reports whether an execution backend is configured
func (c Config) HasBackend() bool { return c.BackendURL != "" }

// HasOpenAI reports whether the assistant is configured
func (c Config) HasOpenAI() bool { return c.OpenAIAPIKey != "" }

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
