package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	Environment    string
	CatalogURL     string
	CatalogTimeout time.Duration
	StorageDriver  string
	DatabaseURL    string
	JWTSecret      string
	GuestTTL       time.Duration
	AllowedOrigins []string
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	catalogTimeout, err := time.ParseDuration(getEnv("CATALOG_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_TIMEOUT: %w", err)
	}
	guestTTL, err := time.ParseDuration(getEnv("GUEST_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid GUEST_TTL: %w", err)
	}

	cfg := &Config{
		ServerPort:     getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		CatalogURL:     getEnv("CATALOG_URL", "http://localhost:3000/api"),
		CatalogTimeout: catalogTimeout,
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", DriverMemory)),
		DatabaseURL:    databaseURL(),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		GuestTTL:       guestTTL,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	switch cfg.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("STORAGE_DRIVER=postgres needs DATABASE_URL or DB_HOST")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "kanap-dev-secret"
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host,
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
