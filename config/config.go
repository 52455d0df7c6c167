package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultMaxCourt = 8

// Config holds every runtime setting the server needs.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// Bcrypt hash of the league admin passcode. Leave empty to disable
	// admin elevation entirely.
	AdminPasscodeHash string

	// Highest court number the facility has on a night.
	MaxCourt int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables, picking up a .env
// file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL, err := requiredEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}

	jwtKey, err := requiredEnv("JWT_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	maxCourt := defaultMaxCourt
	if maxCourtStr := os.Getenv("LEAGUE_MAX_COURT"); maxCourtStr != "" {
		maxCourt, err = strconv.Atoi(maxCourtStr)
		if err != nil {
			return nil, fmt.Errorf("invalid LEAGUE_MAX_COURT environment variable: %w", err)
		}
		if maxCourt < 1 {
			return nil, fmt.Errorf("LEAGUE_MAX_COURT must be at least 1, got %d", maxCourt)
		}
	}

	r2AccountID, err := requiredEnv("R2_ACCOUNT_ID")
	if err != nil {
		return nil, err
	}
	r2AccessKeyID, err := requiredEnv("R2_ACCESS_KEY_ID")
	if err != nil {
		return nil, err
	}
	r2SecretAccessKey, err := requiredEnv("R2_SECRET_ACCESS_KEY")
	if err != nil {
		return nil, err
	}
	r2BucketName, err := requiredEnv("R2_BUCKET_NAME")
	if err != nil {
		return nil, err
	}
	r2PublicBaseURL, err := requiredEnv("R2_PUBLIC_BASE_URL")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		JWTSecretKey:      jwtKey,
		ServerPort:        port,
		AdminPasscodeHash: os.Getenv("ADMIN_PASSCODE_HASH"),
		MaxCourt:          maxCourt,
		R2AccountID:       r2AccountID,
		R2AccessKeyID:     r2AccessKeyID,
		R2SecretAccessKey: r2SecretAccessKey,
		R2BucketName:      r2BucketName,
		R2PublicBaseURL:   r2PublicBaseURL,
	}

	return cfg, nil
}

func requiredEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s environment variable is not set", name)
	}
	return value, nil
}
