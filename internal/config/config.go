package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	LogLevel                  string
	TokenRateLimit            string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	Database                  DatabaseConfig
	Schedule                  ScheduleConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	Path     string
	DSN      string
}

// ScheduleConfig holds the consultation business-hours window.
type ScheduleConfig struct {
	Timezone  string
	OpenHour  int
	CloseHour int
}

const (
	defaultJWTSecret        = "default_jwt_secret"
	defaultJWTRefreshSecret = "default_refresh_secret"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "mysql"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", ""),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinical_records"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
		Path:     getEnv("DB_PATH", "clinical_records.db"),
	}
	dsn, err := buildDSN(dbConfig)
	if err != nil {
		return nil, err
	}
	dbConfig.DSN = dsn

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	openHour, err := strconv.Atoi(getEnv("BUSINESS_OPEN_HOUR", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_OPEN_HOUR: %w", err)
	}

	closeHour, err := strconv.Atoi(getEnv("BUSINESS_CLOSE_HOUR", "18"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_CLOSE_HOUR: %w", err)
	}

	cfg := &Config{
		Port:                      getEnv("PORT", "8000"),
		Origin:                    getEnv("ORIGIN", "http://localhost:3000"),
		Environment:               getEnv("APP_ENV", "development"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		TokenRateLimit:            getEnv("TOKEN_RATE_LIMIT", "20-M"),
		JWTSecret:                 getEnv("JWT_SECRET", defaultJWTSecret),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", defaultJWTRefreshSecret),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		Database:                  dbConfig,
		Schedule: ScheduleConfig{
			Timezone:  getEnv("BUSINESS_TIMEZONE", "America/Sao_Paulo"),
			OpenHour:  openHour,
			CloseHour: closeHour,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.JWTExpirationMinutes <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES must be positive, got %d", c.JWTExpirationMinutes)
	}
	if c.JWTRefreshExpirationHours <= 0 {
		return fmt.Errorf("JWT_REFRESH_EXPIRATION_HOURS must be positive, got %d", c.JWTRefreshExpirationHours)
	}
	if c.Schedule.OpenHour < 0 || c.Schedule.CloseHour > 24 || c.Schedule.OpenHour >= c.Schedule.CloseHour {
		return fmt.Errorf("business hours must satisfy 0 <= open < close <= 24, got %d-%d",
			c.Schedule.OpenHour, c.Schedule.CloseHour)
	}
	if _, err := c.Schedule.Location(); err != nil {
		return err
	}
	if c.IsProduction() && (c.JWTSecret == defaultJWTSecret || c.JWTRefreshSecret == defaultJWTRefreshSecret) {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must be set in production")
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves the configured business timezone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func buildDSN(db DatabaseConfig) (string, error) {
	switch db.Driver {
	case "mysql":
		port := db.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			db.Username, db.Password, db.Host, port, db.Name), nil
	case "postgres":
		port := db.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			db.Host, port, db.Username, db.Password, db.Name, db.SSLMode), nil
	case "sqlite":
		return db.Path + "?_foreign_keys=on&_txlock=immediate", nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q (want mysql, postgres or sqlite)", db.Driver)
	}
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
