package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int    `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_ssl_mode"`
	DBPath     string `json:"db_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret     string        `json:"jwt_secret"`
	SessionTTL    time.Duration `json:"session_ttl"`
	ResetTokenTTL time.Duration `json:"reset_token_ttl"`

	// HTTP hardening
	CORSOrigin        string        `json:"cors_origin"`
	RateLimitRequests int           `json:"rate_limit_requests"`
	RateLimitWindow   time.Duration `json:"rate_limit_window"`

	// Object storage (S3-compatible)
	AWSRegion          string `json:"aws_region"`
	AWSAccessKeyID     string `json:"aws_access_key_id"`
	AWSSecretAccessKey string `json:"aws_secret_access_key"`
	AWSBucket          string `json:"aws_bucket"`
	AWSEndpoint        string `json:"aws_endpoint"`

	// Outbound mail
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     string `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"smtp_password"`
	MailFrom     string `json:"mail_from"`
	Origin       string `json:"origin"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], SessionTTL: %s, CORSOrigin: %s, AWSRegion: %s, AWSBucket: %s, AWSSecretAccessKey: [REDACTED], SMTPHost: %s, SMTPPassword: [REDACTED]}",
		c.Port, c.Host, c.Environment, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.SessionTTL, c.CORSOrigin, c.AWSRegion, c.AWSBucket, c.SMTPHost)
}

// Production reports whether the app runs with the production environment,
// which switches on secure cookies among other things.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	jwtSecret := GetEnvWithDefault("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	config := &Config{
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		Environment: GetEnvWithDefault("APP_ENV", "development"),

		DBDriver:   GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:     GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     GetEnvWithDefault("DB_PORT", "5432"),
		DBUser:     GetEnvWithDefault("DB_USER", "user"),
		DBPassword: GetEnvWithDefault("DB_PASSWORD", "password"),
		DBName:     GetEnvWithDefault("DB_NAME", "shop"),
		DBSSLMode:  GetEnvWithDefault("DB_SSL_MODE", "disable"),
		DBPath:     GetEnvWithDefault("DB_PATH", "shop.sqlite"),

		LogLevel: GetEnvWithDefault("LOG_LEVEL", "info"),

		JWTSecret:     jwtSecret,
		SessionTTL:    time.Duration(GetEnvAsType("SESSION_TTL_MINUTES", 1440)) * time.Minute,
		ResetTokenTTL: time.Duration(GetEnvAsType("RESET_TOKEN_TTL_MINUTES", 60)) * time.Minute,

		CORSOrigin:        GetEnvWithDefault("CORS_ORIGIN", "*"),
		RateLimitRequests: GetEnvAsType("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(GetEnvAsType("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,

		AWSRegion:          GetEnvWithDefault("AWS_REGION", "eu-west-1"),
		AWSAccessKeyID:     GetEnvWithDefault("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: GetEnvWithDefault("AWS_SECRET_ACCESS_KEY", ""),
		AWSBucket:          GetEnvWithDefault("AWS_BUCKET_NAME", "shop-images"),
		AWSEndpoint:        GetEnvWithDefault("AWS_ENDPOINT", ""),

		SMTPHost:     GetEnvWithDefault("SMTP_HOST", ""),
		SMTPPort:     GetEnvWithDefault("SMTP_PORT", "587"),
		SMTPUsername: GetEnvWithDefault("SMTP_USERNAME", ""),
		SMTPPassword: GetEnvWithDefault("SMTP_PASSWORD", ""),
		MailFrom:     GetEnvWithDefault("MAIL_FROM", "noreply@localhost"),
		Origin:       GetEnvWithDefault("ORIGIN", "http://localhost:8080"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
