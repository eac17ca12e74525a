package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	"vex-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	APIBaseURL   string
	APIToken     string
	DBPath       string
	ServerPort   string
	LogLevel     string
	PollInterval time.Duration
	TrackedSKUs  []string
}

const DefaultAPIBaseURL = "https://www.robotevents.com/api/v2"

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIBaseURL:   getEnv("API_BASE_URL", DefaultAPIBaseURL),
		APIToken:     getEnv("API_TOKEN", ""),
		DBPath:       getEnv("DB_PATH", "vex.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		PollInterval: constants.DefaultPollInterval,
		TrackedSKUs:  splitList(getEnv("TRACKED_SKUS", "")),
	}

	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: %w", raw, err)
		}
		if d < constants.MinPollInterval {
			return nil, fmt.Errorf("POLL_INTERVAL %s below minimum %s", d, constants.MinPollInterval)
		}
		cfg.PollInterval = d
	}

	if cfg.APIToken == "" {
		return nil, fmt.Errorf("API_TOKEN is required")
	}

	logger.Info().
		Str("api_base_url", cfg.APIBaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("poll_interval", cfg.PollInterval).
		Strs("tracked_skus", cfg.TrackedSKUs).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var Module = fx.Provide(Load)
