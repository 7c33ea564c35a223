package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
// It is built once in main and handed to the adapters that need it.
type Config struct {
	Toggl struct {
		APIToken    string
		WorkspaceID int64
		BaseURL     string // empty means the client's default host
		// FetchInterval is the pause before each project request.
		FetchInterval time.Duration
	}
	MySQL struct {
		DSN string // optional; e.g. user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
	}
	Sync struct {
		Timezone string // e.g., UTC (default), Europe/Berlin
	}
	HTTP struct {
		Addr string
	}
}

// Load reads a .env file from the working directory when present, then
// configuration from environment variables. Variables already set win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (Config, error) {
	var cfg Config

	cfg.Toggl.APIToken = firstEnv("TOGGL_API_TOKEN", "API_KEY")
	if cfg.Toggl.APIToken == "" {
		return cfg, errors.New("TOGGL_API_TOKEN is required")
	}
	if ws := firstEnv("TOGGL_WORKSPACE_ID", "WORKSPACE_ID"); ws != "" {
		v, err := strconv.ParseInt(ws, 10, 64)
		if err != nil {
			return cfg, errors.New("TOGGL_WORKSPACE_ID must be an integer")
		}
		cfg.Toggl.WorkspaceID = v
	}
	cfg.Toggl.BaseURL = os.Getenv("TOGGL_BASE_URL")
	cfg.Toggl.FetchInterval = time.Second
	if s := os.Getenv("PROJECT_FETCH_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return cfg, fmt.Errorf("PROJECT_FETCH_INTERVAL: %w", err)
		}
		if d < time.Second {
			return cfg, errors.New("PROJECT_FETCH_INTERVAL must be at least 1s")
		}
		cfg.Toggl.FetchInterval = d
	}

	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")

	cfg.Sync.Timezone = os.Getenv("SYNC_TZ")
	if cfg.Sync.Timezone == "" {
		cfg.Sync.Timezone = "UTC"
	}

	cfg.HTTP.Addr = os.Getenv("HTTP_ADDR")
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}

	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
