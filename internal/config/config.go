// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Analytics   AnalyticsConfig
	Benchmark   BenchmarkConfig
	Forecast    ForecastConfig
	Insight     InsightConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// AnalyticsConfig holds engagement analysis configuration
type AnalyticsConfig struct {
	EventsTopic       string
	WeeklyLookback    int
	MonthlyLookback   int
	ViralContentLimit int
}

// BenchmarkConfig holds benchmark computation configuration
type BenchmarkConfig struct {
	SampleSize int
}

// ForecastConfig holds forecast generation configuration
type ForecastConfig struct {
	EventsTopic    string
	InsightTimeout time.Duration
	CategoryCap    int
}

// InsightConfig holds the external insight API configuration
type InsightConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "trendpulse"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Analytics: AnalyticsConfig{
			EventsTopic:       getEnv("ANALYTICS_EVENTS_TOPIC", "analytics"),
			WeeklyLookback:    getEnvAsInt("ANALYTICS_WEEKLY_LOOKBACK", 8),
			MonthlyLookback:   getEnvAsInt("ANALYTICS_MONTHLY_LOOKBACK", 6),
			ViralContentLimit: getEnvAsInt("ANALYTICS_VIRAL_CONTENT_LIMIT", 10),
		},
		Benchmark: BenchmarkConfig{
			SampleSize: getEnvAsInt("BENCHMARK_SAMPLE_SIZE", 500),
		},
		Forecast: ForecastConfig{
			EventsTopic:    getEnv("FORECAST_EVENTS_TOPIC", "forecast"),
			InsightTimeout: getEnvAsDuration("FORECAST_INSIGHT_TIMEOUT", 20*time.Second),
			CategoryCap:    getEnvAsInt("FORECAST_CATEGORY_CAP", 10),
		},
		Insight: InsightConfig{
			APIKey:  getEnv("INSIGHT_API_KEY", ""),
			BaseURL: getEnv("INSIGHT_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("INSIGHT_MODEL", "gpt-4o-mini"),
			Timeout: getEnvAsDuration("INSIGHT_TIMEOUT", 30*time.Second),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Insight.APIKey == "" && config.Environment != "development" {
		return fmt.Errorf("insight API key must be set in non-development environments")
	}

	if config.Benchmark.SampleSize <= 0 {
		return fmt.Errorf("benchmark sample size must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
