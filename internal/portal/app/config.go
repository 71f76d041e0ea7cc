package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer       string // Optional: issuer claim for session tokens (default: shiphy-portal)
	DatabaseFile string // Optional: path to SQLite snapshot database (default: ./portal.db)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Attempt-window prune interval (default: 1m)

	SessionTTL time.Duration // Session token lifetime (default: 8h)

	// Challenge tunables. The defaults are the standard exercise
	// parameters; change them and the planted hints stop matching.
	MaxOTPAttempts int           // OTP attempts before cooldown (default: 3)
	OTPCooldown    time.Duration // OTP cooldown after exhaustion (default: 30s)
	AdminLockout   time.Duration // Admin lockout duration (default: 60s)
	UploadWindow   time.Duration // Upload window after flag verify (default: 10s)
	BurstWindow    time.Duration // Rolling burst-detection window (default: 5s)
	BurstThreshold int           // Attempts inside the window that trip it (default: 10)
}

func LoadConfig() Config {
	return Config{
		Issuer:       getEnvOrDefault("PORTAL_ISSUER", "shiphy-portal"),
		DatabaseFile: getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Minute),

		SessionTTL: getEnvDurationOrDefault("PORTAL_SESSION_TTL", 8*time.Hour),

		MaxOTPAttempts: getEnvIntOrDefault("PORTAL_MAX_OTP_ATTEMPTS", 3),
		OTPCooldown:    getEnvDurationOrDefault("PORTAL_OTP_COOLDOWN", 30*time.Second),
		AdminLockout:   getEnvDurationOrDefault("PORTAL_ADMIN_LOCKOUT", 60*time.Second),
		UploadWindow:   getEnvDurationOrDefault("PORTAL_UPLOAD_WINDOW", 10*time.Second),
		BurstWindow:    getEnvDurationOrDefault("PORTAL_BURST_WINDOW", 5*time.Second),
		BurstThreshold: getEnvIntOrDefault("PORTAL_BURST_THRESHOLD", 10),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are treated as seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
