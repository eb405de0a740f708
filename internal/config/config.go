package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Store backend: postgres or memory
	StoreDriver string

	// Auth
	JWTSecret    string
	AdminUserIDs string

	// Server
	Port               string
	CORSOrigins        string
	RateLimitPerMinute int

	// Scheduler
	ExpiryCron        string
	ExpiryHorizonDays int
	SchedulerTimezone string

	// Logging
	LogRetention time.Duration

	// Plan catalog
	PlanCacheSize int
	PlanCacheTTL  time.Duration
	PlansSeedPath string

	// Notifications
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Telemetry
	OTLPEndpoint string
	ServiceName  string
	SentryDSN    string
	Environment  string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "gym_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StoreDriver: getEnv("STORE_DRIVER", DriverPostgres),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),

		Port:               getEnv("PORT", "8080"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMinute: parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "60"), 60),

		ExpiryCron:        getEnv("EXPIRY_CRON", "0 0 * * *"),
		ExpiryHorizonDays: parseInt(getEnv("EXPIRY_HORIZON_DAYS", "5"), 5),
		SchedulerTimezone: getEnv("SCHEDULER_TIMEZONE", "UTC"),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 720*time.Hour),

		PlanCacheSize: parseInt(getEnv("PLAN_CACHE_SIZE", "128"), 128),
		PlanCacheTTL:  parseDuration(getEnv("PLAN_CACHE_TTL", "5m"), 5*time.Minute),
		PlansSeedPath: getEnv("PLANS_SEED_PATH", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@gym.local"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "gym-backend"),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		Environment:  getEnv("APP_ENV", "development"),
	}
}

// Validate reports the first setting that would keep the server from starting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD is required for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ExpiryHorizonDays <= 0 {
		return errors.New("EXPIRY_HORIZON_DAYS must be positive")
	}
	if _, err := cron.ParseStandard(c.ExpiryCron); err != nil {
		return fmt.Errorf("invalid EXPIRY_CRON: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the scheduler timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.SchedulerTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
