// Package config loads runtime settings from the environment. A .env file in
// the working directory is honored when present; real environment variables
// take precedence.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds the server's runtime configuration. Provider credentials
// (OPENAI_API_KEY, MISTRAL_API_KEY, GROQ_API_KEY, TAVILY_API_KEY) and the
// planner base URL (KEYWORD_PLANNER_URL) are read by the provider packages
// themselves.
type Settings struct {
	// Port the HTTP server listens on. Env PORT, default "8080".
	Port string
	// LogLevel for the slog handler. Env LOG_LEVEL: debug|info|warn|error.
	LogLevel slog.Level
}

// Load reads settings from the environment, loading .env first when present.
func Load() Settings {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return Settings{
		Port:     envOrDefault("PORT", "8080"),
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
