package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Fixed loop periods. The digest check interval is recomputed at runtime
	// from the digest settings row, so it is not configured here.
	OverdueSweepInterval      time.Duration
	DeadlinePassInterval      time.Duration
	DeadlineApproachingWindow time.Duration

	// Defaults seeded into the digest settings row on first boot.
	DigestEmailingEnabled      bool
	DigestHSEIntervalMinutes   int
	DigestAdminIntervalMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "hse"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@hse.local"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "HSE Platform"),

		OverdueSweepInterval:      getEnvDuration("OVERDUE_SWEEP_INTERVAL", time.Hour),
		DeadlinePassInterval:      getEnvDuration("DEADLINE_PASS_INTERVAL", 6*time.Hour),
		DeadlineApproachingWindow: getEnvDuration("DEADLINE_APPROACHING_WINDOW", 24*time.Hour),

		DigestEmailingEnabled:      getEnvBool("DIGEST_EMAILING_ENABLED", true),
		DigestHSEIntervalMinutes:   getEnvInt("DIGEST_HSE_INTERVAL_MINUTES", 360),
		DigestAdminIntervalMinutes: getEnvInt("DIGEST_ADMIN_INTERVAL_MINUTES", 720),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
