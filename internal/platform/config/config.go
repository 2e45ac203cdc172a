package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	Addr               string
	Environment        string
	StorageBackend     string
	DataDir            string
	DatabaseURL        string
	MigrationsDir      string
	CatalogFile        string
	JWTSecret          string
	TokenTTL           time.Duration
	AdminUsername      string
	AdminPassword      string
	StaffUsername      string
	StaffPassword      string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	ParserTimeout      time.Duration
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
	ReportsDir         string
}

// LoadDotEnv reads path into the process environment when the file exists.
// Variables already set win over the file.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func Load() Config {
	env := getEnv("APP_ENV", "development")
	devDefault := func(value string) string {
		if env == "production" {
			return ""
		}
		return value
	}
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        env,
		StorageBackend:     strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		DataDir:            getEnv("DATA_DIR", "data"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		CatalogFile:        getEnv("CATALOG_FILE", ""),
		JWTSecret:          getEnv("JWT_SECRET", devDefault("dev-only-secret")),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 8*time.Hour),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", devDefault("admin")),
		StaffUsername:      getEnv("STAFF_USERNAME", "employee"),
		StaffPassword:      getEnv("STAFF_PASSWORD", devDefault("employee")),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ParserTimeout:      getEnvDuration("PARSER_TIMEOUT", 30*time.Second),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		ReportsDir:         getEnv("REPORTS_DIR", "storage/reports"),
	}
}

func (c Config) AssistantEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("DATA_DIR is required for the file backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q", BackendFile, BackendPostgres)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Environment == "production" {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.AdminPassword) == "" {
			return fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.ParserTimeout <= 0 {
		return fmt.Errorf("PARSER_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
