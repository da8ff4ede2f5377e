// Package config handles configuration loading for the attendance service.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the attendance service.
type Config struct {
	DatabaseURL   string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	NATSURL       string
	JWTSecret     string
	JWTExpiry     time.Duration
	OTPExpiry     time.Duration
	Port          string
	Environment   string
}

// Load reads configuration from the environment, consulting a .env file
// when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL:   getEnvRequired("DATABASE_URL"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		NATSURL:       getEnv("NATS_URL", ""),
		JWTSecret:     getEnvRequired("JWT_SECRET"),
		JWTExpiry:     parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		OTPExpiry:     parseDuration(getEnv("OTP_EXPIRY", "10m"), 10*time.Minute),
		Port:          getEnv("PORT", "8086"),
		Environment:   getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
