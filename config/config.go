// Package config collects all externally supplied settings. Everything is
// environment driven; none of it is business logic.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBPath        string
	CacheDir      string
	MmdcPath      string
	RenderTimeout time.Duration
	RendersPerSec float64
	RenderBurst   int

	SessionSecret string
	SessionTTL    time.Duration
	RedisEndpoint string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	HostPort string
	DevMode  bool
}

func Load() (Config, error) {
	cfg := Config{
		DBPath:        envOr("DB_PATH", "./mermadic.db"),
		CacheDir:      envOr("CACHE_DIR", "./cache"),
		MmdcPath:      envOr("MMDC_PATH", "mmdc"),
		RenderTimeout: time.Duration(envIntOr("RENDER_TIMEOUT_SECONDS", 30)) * time.Second,
		RendersPerSec: 5,
		RenderBurst:   10,

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    time.Duration(envIntOr("SESSION_TTL_HOURS", 24*7)) * time.Hour,
		RedisEndpoint: envOr("REDIS_ENDPOINT", "localhost:6379"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),

		HostPort: envOr("HOST_PORT", "8080"),
		DevMode:  os.Getenv("DEV_MODE") == "true",
	}

	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET is required")
	}

	return cfg, nil
}

// GoogleConfigured reports whether the OAuth flow can be offered at all.
func (c Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleCallbackURL != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
