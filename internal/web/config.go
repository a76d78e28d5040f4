package web

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tablefill/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Matching MatchingConfig `json:"matching"`
	Limits   LimitConfig    `json:"limits"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
	// AllowedOrigin is sent as Access-Control-Allow-Origin.
	AllowedOrigin string `json:"allowed_origin"`
}

// MatchingConfig holds the defaults applied to fill requests
type MatchingConfig struct {
	Threshold          float64 `json:"threshold"`
	DecomposeThreshold float64 `json:"decompose_threshold"`
	Workers            int     `json:"workers"`
	SynonymsPath       string  `json:"synonyms_path"`
	CombinationsPath   string  `json:"combinations_path"`
	FoldWidth          bool    `json:"fold_width"`
	SeparatorToken     bool    `json:"separator_token"`
}

// LimitConfig bounds request sizes
type LimitConfig struct {
	MaxBodyBytes int64 `json:"max_body_bytes"`
	MaxRows      int   `json:"max_rows"`
	// RequestsPerSecond of zero disables rate limiting.
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

// Settings converts the matching section to run settings.
func (m MatchingConfig) Settings() config.Matching {
	return config.Matching{
		Threshold:          m.Threshold,
		DecomposeThreshold: m.DecomposeThreshold,
		Workers:            m.Workers,
		SynonymsPath:       m.SynonymsPath,
		CombinationsPath:   m.CombinationsPath,
		FoldWidth:          m.FoldWidth,
		SeparatorToken:     m.SeparatorToken,
	}
}

func (m MatchingConfig) validate() error {
	if m.Threshold < 0 || m.Threshold > 1 {
		return fmt.Errorf("matching.threshold must be between 0 and 1, got %v", m.Threshold)
	}
	if m.DecomposeThreshold < 0 || m.DecomposeThreshold > 1 {
		return fmt.Errorf("matching.decompose_threshold must be between 0 and 1, got %v", m.DecomposeThreshold)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file. Fields missing from the
// file keep their DefaultConfig values; thresholds must lie in [0,1].
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err := config.Matching.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	m := config.DefaultMatching()
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			Host:          "0.0.0.0",
			AllowedOrigin: "*",
		},
		Matching: MatchingConfig{
			Threshold:          m.Threshold,
			DecomposeThreshold: m.DecomposeThreshold,
			Workers:            m.Workers,
		},
		Limits: LimitConfig{
			MaxBodyBytes:      16 << 20,
			MaxRows:           200000,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// ConfigFromEnv overlays TABLEFILL_* variables on the defaults.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	m := config.LoadMatching()

	cfg.Server.Host = config.GetEnv("TABLEFILL_HOST", cfg.Server.Host)
	cfg.Server.Port = config.GetEnvInt("TABLEFILL_PORT", cfg.Server.Port)
	cfg.Server.AllowedOrigin = config.GetEnv("TABLEFILL_ALLOWED_ORIGIN", cfg.Server.AllowedOrigin)
	cfg.Limits.RequestsPerSecond = config.GetEnvFloat("TABLEFILL_RATE_LIMIT", cfg.Limits.RequestsPerSecond)
	cfg.Matching = MatchingConfig{
		Threshold:          m.Threshold,
		DecomposeThreshold: m.DecomposeThreshold,
		Workers:            m.Workers,
		SynonymsPath:       m.SynonymsPath,
		CombinationsPath:   m.CombinationsPath,
		FoldWidth:          m.FoldWidth,
		SeparatorToken:     m.SeparatorToken,
	}
	return cfg
}
