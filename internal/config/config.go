package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Strategy StrategyConfig
	YouTube  YouTubeConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type GeminiConfig struct {
	// APIKey may be empty; analyses then use the demonstration strategy
	// unless the user supplies a key.
	APIKey  string
	Model   string
	BaseURL string
}

type StrategyConfig struct {
	Timeout   time.Duration
	Language  string
	DemoDelay time.Duration
}

type YouTubeConfig struct {
	Endpoint string
}

type DatabaseConfig struct {
	Driver string
	URL    string
}

type AuthConfig struct {
	// JWTSecret enables bearer token identities. Without it every visitor
	// is a guest.
	JWTSecret   string
	GuestCookie string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
		},
		Strategy: StrategyConfig{
			Timeout:   time.Duration(getEnvInt("STRATEGY_TIMEOUT_SECONDS", 90)) * time.Second,
			Language:  getEnv("STRATEGY_LANGUAGE", "English"),
			DemoDelay: time.Duration(getEnvInt("DEMO_DELAY_MS", 1500)) * time.Millisecond,
		},
		YouTube: YouTubeConfig{
			Endpoint: getEnv("YOUTUBE_ENDPOINT", ""),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
			URL:    getEnv("DATABASE_URL", "tubearchitect.db"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
			GuestCookie: getEnv("AUTH_GUEST_COOKIE", "tubearchitect_guest"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.Server.GinMode)
	}
	if c.Strategy.Timeout <= 0 {
		return fmt.Errorf("STRATEGY_TIMEOUT_SECONDS must be positive")
	}
	if c.Strategy.DemoDelay < 0 {
		return fmt.Errorf("DEMO_DELAY_MS must not be negative")
	}
	switch c.Database.Driver {
	case "memory":
	case "sqlite", "postgres", "redis":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", c.Database.Driver)
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite, postgres, redis or memory, got %q", c.Database.Driver)
	}
	if c.Auth.GuestCookie == "" {
		return fmt.Errorf("AUTH_GUEST_COOKIE must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
