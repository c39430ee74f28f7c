package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Host     HostConfig
	Ai       AIConfig
	Database DatabaseConfig
	Events   EventsConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	InferenceLogPath   string
	CorsAllowedOrigins string
	SessionTTL         time.Duration
	SessionStore       string // "memory" | "redis"
	RedisURL           string
}

type HostConfig struct {
	Provider    string // "openapi" | "fixture" | "sql"
	BaseURL     string
	AppToken    string
	AccessToken string
	FixturePath string
	PageSize    int
	Timeout     time.Duration
}

type AIConfig struct {
	LLMProvider string // "openai" | "huggingface" | "ollama"
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string
	Temperature float64
	MaxTokens   int
	TopP        float64
	Timeout     time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type EventsConfig struct {
	Topic   string
	NatsURL string
}

type AuthConfig struct {
	// JwtSecret enables bearer-token protection of the API when non-empty.
	JwtSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			InferenceLogPath:   getEnv("INFERENCE_LOG_PATH", "logs/inference.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", time.Hour),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Host: HostConfig{
			Provider:    getEnv("HOST_PROVIDER", "fixture"),
			BaseURL:     getEnv("HOST_BASE_URL", "https://open.feishu.cn"),
			AppToken:    getEnv("HOST_APP_TOKEN", ""),
			AccessToken: getEnv("HOST_ACCESS_TOKEN", ""),
			FixturePath: getEnv("HOST_FIXTURE_PATH", "fixtures/base.yaml"),
			PageSize:    getEnvAsInt("HOST_PAGE_SIZE", 100),
			Timeout:     getEnvAsDuration("HOST_TIMEOUT", 30*time.Second),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "openai"),
			LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:   getEnv("LLM_API_KEY", ""),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1024),
			TopP:        getEnvAsFloat("LLM_TOP_P", 1),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Events: EventsConfig{
			Topic:   getEnv("ACTIVITY_TOPIC_NAME", "TABLECHAT_ACTIVITY"),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
	}
}

// Validate reports settings that make the service unusable. There is no
// built-in API key: a hosted LLM provider needs LLM_API_KEY.
func (c *Config) Validate() error {
	var errs []error
	switch c.Ai.LLMProvider {
	case "openai", "huggingface":
		if c.Ai.LLMAPIKey == "" {
			errs = append(errs, fmt.Errorf("LLM_API_KEY is required for the %s provider", c.Ai.LLMProvider))
		}
	case "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER: %s", c.Ai.LLMProvider))
	}
	switch c.Host.Provider {
	case "openapi":
		if c.Host.AppToken == "" {
			errs = append(errs, errors.New("HOST_APP_TOKEN is required for the openapi host"))
		}
	case "sql":
		if c.Database.Connection == "" {
			errs = append(errs, errors.New("DB_CONNECTION_STRING is required for the sql host"))
		}
	case "fixture":
		if c.Host.FixturePath == "" {
			errs = append(errs, errors.New("HOST_FIXTURE_PATH is required for the fixture host"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported HOST_PROVIDER: %s", c.Host.Provider))
	}
	if c.App.SessionStore != "memory" && c.App.SessionStore != "redis" {
		errs = append(errs, fmt.Errorf("unsupported SESSION_STORE: %s", c.App.SessionStore))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
