package config

import (
	"os"
	"strconv"
	"strings"
)

// Default confidence cutoff for both decomposition and answer acceptance.
const DefaultThreshold = 0.60

// Matching holds the tunables of a fill run.
type Matching struct {
	Threshold          float64
	DecomposeThreshold float64
	Workers            int
	Log                bool
	SynonymsPath       string
	CombinationsPath   string
	FoldWidth          bool
	SeparatorToken     bool
}

// DefaultMatching returns a 0.60 cutoff for both stages and a single worker.
func DefaultMatching() Matching {
	return Matching{
		Threshold:          DefaultThreshold,
		DecomposeThreshold: DefaultThreshold,
		Workers:            1,
	}
}

// LoadMatching reads TABLEFILL_* variables on top of the defaults.
// Thresholds outside [0,1] and negative worker counts are ignored; zero
// workers means one per CPU.
func LoadMatching() Matching {
	m := DefaultMatching()

	if v := GetEnvFloat("TABLEFILL_THRESHOLD", m.Threshold); v >= 0 && v <= 1 {
		m.Threshold = v
	}
	if v := GetEnvFloat("TABLEFILL_DECOMPOSE_THRESHOLD", m.DecomposeThreshold); v >= 0 && v <= 1 {
		m.DecomposeThreshold = v
	}
	if v := GetEnvInt("TABLEFILL_WORKERS", m.Workers); v >= 0 {
		m.Workers = v
	}
	m.Log = GetEnvBool("TABLEFILL_LOG", m.Log)
	m.SynonymsPath = GetEnv("TABLEFILL_SYNONYMS", "")
	m.CombinationsPath = GetEnv("TABLEFILL_COMBINATIONS", "")
	m.FoldWidth = GetEnvBool("TABLEFILL_FOLD_WIDTH", m.FoldWidth)
	m.SeparatorToken = GetEnvBool("TABLEFILL_SEPARATOR_TOKEN", m.SeparatorToken)

	return m
}

// LoadEnv loads environment variables from .env file
func LoadEnv() error {
	// Try to load from .env file in current directory first, then parent directories
	envPaths := []string{".env", "../.env", "../../.env"}

	for _, envPath := range envPaths {
		data, err := os.ReadFile(envPath)
		if err != nil {
			continue
		}
		applyEnv(string(data))
		break
	}
	return nil
}

// applyEnv sets KEY=VALUE pairs that are not already present in the environment.
func applyEnv(data string) {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Only set if not already set
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// GetEnv gets environment variable with default
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets integer environment variable with default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvFloat gets float environment variable with default
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvBool gets boolean environment variable with default
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
