package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Env      string
	Database DatabaseConfig
	Redis    RedisConfig
	OTEL     OTELConfig
	Eval     EvalConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisAddr returns the Redis address in host:port form
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// EvalConfig holds evaluation run configuration
type EvalConfig struct {
	// Source selects where recommendation and interaction tables come
	// from: "csv" or "postgres".
	Source           string
	RecoPath         string
	InteractionsPath string
	RunID            string
	CatalogSize      int
	Ks               []int
	FBeta            float64
	Debias           bool
	DebiasIQRCoef    float64
	DebiasSeed       int64
	StoreReport      bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "recmetrics"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "recmetrics-evaluate"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Eval: EvalConfig{
			Source:           getEnv("EVAL_SOURCE", "csv"),
			RecoPath:         getEnv("EVAL_RECO_PATH", "recommendations.csv"),
			InteractionsPath: getEnv("EVAL_INTERACTIONS_PATH", "interactions.csv"),
			RunID:            getEnv("EVAL_RUN_ID", ""),
			CatalogSize:      getEnvAsInt("EVAL_CATALOG_SIZE", 0),
			FBeta:            getEnvAsFloat("EVAL_FBETA", 1.0),
			Debias:           getEnvAsBool("EVAL_DEBIAS", false),
			DebiasIQRCoef:    getEnvAsFloat("EVAL_DEBIAS_IQR_COEF", 1.5),
			DebiasSeed:       int64(getEnvAsInt("EVAL_DEBIAS_SEED", 32)),
			StoreReport:      getEnvAsBool("EVAL_STORE_REPORT", false),
		},
	}

	ks, err := parseIntList(getEnv("EVAL_KS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVAL_KS: %w", err)
	}
	cfg.Eval.Ks = ks

	if cfg.Eval.Source != "csv" && cfg.Eval.Source != "postgres" {
		return nil, fmt.Errorf("invalid EVAL_SOURCE %q (must be csv or postgres)", cfg.Eval.Source)
	}

	return cfg, nil
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, fmt.Errorf("cutoff must be positive, got %d", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no cutoffs configured")
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
