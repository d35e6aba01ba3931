package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment        string
	HTTPPort           string
	DatabasePath       string
	AdminToken         string
	JWTSecret          string
	AuditRetentionDays int
	NotifyURL          string
	NotifyMinPriority  int
	AllowedOrigin      string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:        getEnv("MODSENTRY_ENV", "development"),
		HTTPPort:           getEnv("MODSENTRY_HTTP_PORT", "8080"),
		DatabasePath:       getEnv("MODSENTRY_DB_PATH", filepath.Join("data", "modsentry.db")),
		AdminToken:         getEnv("MODSENTRY_ADMIN_TOKEN", ""),
		JWTSecret:          getEnv("MODSENTRY_JWT_SECRET", ""),
		AuditRetentionDays: getEnvInt("MODSENTRY_AUDIT_RETENTION_DAYS", 90),
		NotifyURL:          getEnv("MODSENTRY_NOTIFY_URL", ""),
		NotifyMinPriority:  getEnvInt("MODSENTRY_NOTIFY_MIN_PRIORITY", 8),
		AllowedOrigin:      getEnv("MODSENTRY_ALLOWED_ORIGIN", "*"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}
