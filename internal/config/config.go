package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	Yard      YardConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// YardConfig holds yard-specific tunables
type YardConfig struct {
	// MinJustificationLen is the minimum free-text length accepted for a
	// manual rack adjustment.
	MinJustificationLen int
	// LabelBaseURL is the prefix encoded into rack-tag QR codes.
	LabelBaseURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3001"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "pipeyard"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Yard: YardConfig{
			MinJustificationLen: 20,
			LabelBaseURL:        getEnv("LABEL_BASE_URL", "YARD.PIPE/"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
