// Package helper loads service configuration from the environment.
package helper

import (
	"os"
	"strconv"
	"time"

	database "github.com/yishak-cs/shop-analytics/internal/database"
)

// Config holds the runtime configuration for the service.
type Config struct {
	HTTPAddr        string
	Neo4j           database.Config
	RabbitURL       string
	PricingInterval time.Duration
	ShutdownTimeout time.Duration
}

// LoadConfigFromEnv loads configuration from environment variables.
// PRICING_INTERVAL_MINUTES defaults to 360 (six hours).
func LoadConfigFromEnv() Config {
	return Config{
		HTTPAddr: ":" + getEnvOrDefault("APP_PORT", "8080"),
		Neo4j: database.Config{
			URI:      getEnvOrDefault("NEO4J_URI", ""),
			Username: getEnvOrDefault("NEO4J_USERNAME", "neo4j"),
			Password: getEnvOrDefault("NEO4J_PASSWORD", ""),
			Database: getEnvOrDefault("NEO4J_DATABASE", "neo4j"),
		},
		RabbitURL:       getEnvOrDefault("RABBITMQ_URL", ""),
		PricingInterval: minutesEnvOrDefault("PRICING_INTERVAL_MINUTES", 360),
		ShutdownTimeout: secondsEnvOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 10),
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// intEnvOrDefault returns an integer environment variable value or default
func intEnvOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func minutesEnvOrDefault(key string, defaultMinutes int) time.Duration {
	return time.Duration(intEnvOrDefault(key, defaultMinutes)) * time.Minute
}

func secondsEnvOrDefault(key string, defaultSeconds int) time.Duration {
	return time.Duration(intEnvOrDefault(key, defaultSeconds)) * time.Second
}
