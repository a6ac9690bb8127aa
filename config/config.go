package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// OnConnectFailure selects the bootstrap behavior when the store is
// unreachable at startup.
type OnConnectFailure string

const (
	RetryOnFailure OnConnectFailure = "retry"
	ExitOnFailure  OnConnectFailure = "exit"
)

type Config struct {
	Port int
	Env  string

	MongoURI      string
	MongoDatabase string
	RedisURL      string

	TokenSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	FrontendURL    string
	AllowedOrigins []string

	OnConnectFailure OnConnectFailure
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the environment (optionally seeded from a .env file) into a
// Config, failing if a required setting is absent.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := intEnv("PORT", 3000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               port,
		Env:                stringEnv("ENV", "development"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDatabase:      stringEnv("MONGO_DATABASE", "todo-list"),
		RedisURL:           os.Getenv("REDIS_URL"),
		TokenSecret:        os.Getenv("TOKEN_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		FrontendURL:        strings.TrimSuffix(os.Getenv("FRONTEND_URL"), "/"),
		AllowedOrigins:     parseList(stringEnv("ALLOWED_ORIGINS", "http://localhost:5500")),
	}

	required := map[string]string{
		"MONGO_URI":            cfg.MongoURI,
		"TOKEN_SECRET":         cfg.TokenSecret,
		"GOOGLE_CLIENT_ID":     cfg.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": cfg.GoogleClientSecret,
		"GOOGLE_CALLBACK_URL":  cfg.GoogleCallbackURL,
		"FRONTEND_URL":         cfg.FrontendURL,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("missing required env %s", name)
		}
	}

	switch mode := OnConnectFailure(stringEnv("ON_CONNECT_FAILURE", string(RetryOnFailure))); mode {
	case RetryOnFailure, ExitOnFailure:
		cfg.OnConnectFailure = mode
	default:
		return nil, fmt.Errorf("invalid ON_CONNECT_FAILURE %q (want %q or %q)", mode, RetryOnFailure, ExitOnFailure)
	}

	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
