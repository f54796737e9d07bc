package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
	Output   OutputConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds report persistence settings. URL may be empty:
// persistence is optional and disabled without it.
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig holds engine defaults
type AnalysisConfig struct {
	Alpha         float64
	IQRMultiplier float64
	IrwinCritical float64
	Methods       []string
}

// OutputConfig holds file output settings
type OutputConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Analysis: AnalysisConfig{
			Alpha:         getEnvFloatOrDefault("ANALYSIS_ALPHA", 0.05),
			IQRMultiplier: getEnvFloatOrDefault("ANALYSIS_IQR_MULTIPLIER", 1.5),
			IrwinCritical: getEnvFloatOrDefault("ANALYSIS_IRWIN_CRITICAL", 1.7),
			Methods:       getEnvListOrDefault("ANALYSIS_OUTLIER_METHODS", nil),
		},
		Output: OutputConfig{
			Dir: getEnvOrDefault("OUTPUT_DIR", "out"),
		},
	}

	if cfg.Analysis.Alpha <= 0 || cfg.Analysis.Alpha >= 1 {
		return nil, fmt.Errorf("ANALYSIS_ALPHA must be in (0, 1), got %v", cfg.Analysis.Alpha)
	}
	if cfg.Analysis.IQRMultiplier <= 0 {
		return nil, fmt.Errorf("ANALYSIS_IQR_MULTIPLIER must be positive, got %v", cfg.Analysis.IQRMultiplier)
	}
	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloatOrDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvListOrDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
