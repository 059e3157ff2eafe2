package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	LogLevel    string
	GroqAPIKey  string
	GroqModel   string
	GroqTimeout time.Duration
	DatabaseURL string
	NatsURL     string
	NatsToken   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present, matching how the dashboard deployments
// ship credentials.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        envInt("MATCHD_PORT", 5000),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		GroqAPIKey:  envStr("GROQ_API_KEY", ""),
		GroqModel:   envStr("GROQ_MODEL", "mixtral-8x7b-32768"),
		GroqTimeout: envDuration("GROQ_TIMEOUT", 60*time.Second),
		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
