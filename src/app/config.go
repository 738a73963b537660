package app

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	// =========================== REQUIRED ===========================

	// MongoDB connection string (required)
	MongoURI *string
	// Database name (required)
	DBName *string

	// =========================== OPTIONAL ===========================

	// Logging configuration
	LogLevel *string

	// HTTP server configuration
	Port *string

	// CORS configuration
	AllowOrigins *[]string

	// Reconcile worker interval in seconds; 0 disables the worker
	ReconcileInterval *int

	// Shared secret for admin routes; empty leaves them open
	APISecret *string
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{}
	loadRequiredConfig(config)
	loadOptionalConfig(config)
	return config
}

// loadRequiredConfig loads all required configuration values and fails fast if any are missing
func loadRequiredConfig(config *AppConfig) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatalf("REQUIRED: MONGO_URI not set in environment")
	}
	config.MongoURI = &mongoURI

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		log.Fatalf("REQUIRED: DB_NAME not set in environment")
	}
	config.DBName = &dbName

	// CORS origins (required in production, optional in development)
	loadCORSConfig(config)
}

// loadOptionalConfig loads all optional configuration values with sensible defaults
func loadOptionalConfig(config *AppConfig) {
	// HTTP server port (default: 3000, same as the original server)
	port := getEnvWithDefault("PORT", "3000")
	config.Port = &port

	// Log level (default: debug)
	// Available levels: "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"
	logLevel := getEnvWithDefault("LOG_LEVEL", "debug")
	config.LogLevel = &logLevel

	reconcileInterval := getReconcileInterval()
	config.ReconcileInterval = &reconcileInterval

	apiSecret := os.Getenv("API_SECRET")
	config.APISecret = &apiSecret
}

// loadCORSConfig handles CORS origins configuration with environment-specific behavior
func loadCORSConfig(config *AppConfig) {
	allowOriginsStr := os.Getenv("ALLOW_ORIGINS")
	var allowOrigins []string

	if allowOriginsStr != "" {
		origins := strings.Split(allowOriginsStr, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowOrigins = append(allowOrigins, origin)
			}
		}
	} else {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "development" || environment == "dev" {
			// The original server runs with a wide-open cors() in development
			allowOrigins = []string{"*"}
		} else {
			log.Fatalf("REQUIRED: ALLOW_ORIGINS not set in environment (required in production)")
		}
	}

	config.AllowOrigins = &allowOrigins
}

// getReconcileInterval parses the reconcile interval from environment with default fallback
func getReconcileInterval() int {
	intervalStr := os.Getenv("RECONCILE_INTERVAL")
	if intervalStr == "" {
		return 0 // disabled by default; counters only repaired on demand
	}

	if parsed, err := strconv.Atoi(intervalStr); err == nil {
		return parsed
	}

	log.Printf("Warning: Invalid RECONCILE_INTERVAL value '%s', worker disabled", intervalStr)
	return 0
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
