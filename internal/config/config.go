// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for the listings database (always absolute)
	EstimatorPath string // Path to the pre-trained price estimator artifact, relative to DataDir
	ListingsDir   string // Directory with per-ward transaction CSV files (optional)
	LogLevel      string
	Port          int
	DevMode       bool
	Valuation     ValuationConfig
}

// ValuationConfig holds the tunable valuation policy parameters.
// These are policy knobs layered on top of the estimator output, not
// estimator features. The brand premium pair varies by deployment and is
// therefore configurable rather than hardcoded.
type ValuationConfig struct {
	ReferenceYear    int     // "Current" year used for building-age derivation
	OffsetYears      int     // Forward/backward re-estimate offset for the appraisal
	BaseUnitRent     float64 // Base monthly rent per square meter, in yen
	BrandPremiumLow  float64 // Lower brand premium multiplier
	BrandPremiumHigh float64 // Upper brand premium multiplier
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic
	// 1. Check WARDNAVI_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path
	// 4. Ensure directory exists
	dataDir := getEnv("WARDNAVI_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:       absDataDir,
		EstimatorPath: getEnv("ESTIMATOR_PATH", "model/forest.bin"),
		ListingsDir:   getEnv("LISTINGS_DIR", ""),
		Port:          getEnvAsInt("PORT", 8001),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Valuation:     loadValuationConfig(),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Valuation.BrandPremiumLow <= 0 || c.Valuation.BrandPremiumHigh <= 0 {
		return fmt.Errorf("brand premium multipliers must be positive (got %.2f-%.2f)",
			c.Valuation.BrandPremiumLow, c.Valuation.BrandPremiumHigh)
	}
	if c.Valuation.BrandPremiumLow > c.Valuation.BrandPremiumHigh {
		return fmt.Errorf("brand premium low multiplier %.2f exceeds high multiplier %.2f",
			c.Valuation.BrandPremiumLow, c.Valuation.BrandPremiumHigh)
	}
	if c.Valuation.ReferenceYear < 1900 {
		return fmt.Errorf("reference year %d is not a plausible calendar year", c.Valuation.ReferenceYear)
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
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// loadValuationConfig loads valuation policy parameters with defaults
func loadValuationConfig() ValuationConfig {
	return ValuationConfig{
		ReferenceYear:    getEnvAsInt("REFERENCE_YEAR", 2026),
		OffsetYears:      getEnvAsInt("APPRAISAL_OFFSET_YEARS", 5),
		BaseUnitRent:     getEnvAsFloat("BASE_UNIT_RENT", 3300),
		BrandPremiumLow:  getEnvAsFloat("BRAND_PREMIUM_LOW", 0.95),
		BrandPremiumHigh: getEnvAsFloat("BRAND_PREMIUM_HIGH", 1.25),
	}
}
