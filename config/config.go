package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"athProjector/internal/adapters/logger" // Import the logger package for LogLevel
)

// DataSourceKind selects where the historical series comes from.
type DataSourceKind string

const (
	DataSourceCSV    DataSourceKind = "csv"
	DataSourceSQLite DataSourceKind = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Instrument
	Symbol    string // e.g., "btcusd"
	Timeframe string // e.g., "d1"

	// Data source
	DataSource DataSourceKind
	DataDir    string // CSV directory, also the fetch sidecar's output dir
	DBPath     string // SQLite bar store

	// Analysis Parameters
	RSIPeriod         int     // e.g., 14
	OpenMAPeriod      int     // e.g., 7
	ATHBandFraction   float64 // near-ATH band width, e.g., 0.05 for 5%
	GrowthDamping     float64 // headline increment damping, e.g., 0.1
	ProjectionDays    int     // Strategy A default horizon, e.g., 90
	HalvingTargetYear int     // Strategy B target year, e.g., 2024
	HeadlineYears     int     // headline trajectory horizon in years, e.g., 7

	// Presentation
	ChartPath string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter

	// Binance (fetch sidecar only; kline endpoints are public)
	APIKey    string
	SecretKey string
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Instrument
	cfg.Symbol = getEnv("SYMBOL", "btcusd")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}
	cfg.Timeframe = getEnv("TIMEFRAME", "d1")
	if cfg.Timeframe == "" {
		errs = append(errs, "TIMEFRAME must be set")
	}

	// Data source
	switch DataSourceKind(strings.ToLower(getEnv("DATA_SOURCE", "csv"))) {
	case DataSourceCSV:
		cfg.DataSource = DataSourceCSV
	case DataSourceSQLite:
		cfg.DataSource = DataSourceSQLite
	default:
		errs = append(errs, "DATA_SOURCE must be 'csv' or 'sqlite'")
	}
	cfg.DataDir = getEnv("DATA_DIR", "./data/btcusd")
	cfg.DBPath = getEnv("DB_PATH", "./data/bars.db")

	// Analysis Parameters
	cfg.RSIPeriod, err = getEnvAsIntRequired("RSI_PERIOD", 14)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RSI_PERIOD: %v", err))
	} else if cfg.RSIPeriod <= 0 {
		errs = append(errs, "RSI_PERIOD must be positive")
	}

	cfg.OpenMAPeriod, err = getEnvAsIntRequired("OPEN_MA_PERIOD", 7)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid OPEN_MA_PERIOD: %v", err))
	} else if cfg.OpenMAPeriod <= 0 {
		errs = append(errs, "OPEN_MA_PERIOD must be positive")
	}

	cfg.ATHBandFraction, err = getEnvAsFloatRequired("ATH_BAND_FRACTION", 0.05)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ATH_BAND_FRACTION: %v", err))
	} else if cfg.ATHBandFraction <= 0 || cfg.ATHBandFraction >= 1 {
		errs = append(errs, "ATH_BAND_FRACTION must be between 0.0 and 1.0 (exclusive)")
	}

	cfg.GrowthDamping, err = getEnvAsFloatRequired("GROWTH_DAMPING", 0.1)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid GROWTH_DAMPING: %v", err))
	} else if cfg.GrowthDamping <= 0 {
		errs = append(errs, "GROWTH_DAMPING must be positive")
	}

	cfg.ProjectionDays, err = getEnvAsIntRequired("PROJECTION_DAYS", 90)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid PROJECTION_DAYS: %v", err))
	} else if cfg.ProjectionDays <= 0 {
		errs = append(errs, "PROJECTION_DAYS must be positive")
	}

	cfg.HalvingTargetYear, err = getEnvAsIntRequired("HALVING_TARGET_YEAR", 2024)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid HALVING_TARGET_YEAR: %v", err))
	}

	cfg.HeadlineYears, err = getEnvAsIntRequired("HEADLINE_YEARS", 7)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid HEADLINE_YEARS: %v", err))
	} else if cfg.HeadlineYears <= 0 {
		errs = append(errs, "HEADLINE_YEARS must be positive")
	}

	// Presentation
	cfg.ChartPath = getEnv("CHART_PATH", "./projection.html")

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Binance (optional)
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}
