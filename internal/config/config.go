package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the analysis service.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Remediation RemediationConfig `yaml:"remediation"`
	History     HistoryConfig     `yaml:"history"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// AnalysisConfig holds the root-cause engine tunables.
type AnalysisConfig struct {
	// TimeWindow is the maximum gap between chained cluster members.
	TimeWindow time.Duration `yaml:"timeWindow"`
	// SimilarityThreshold is the minimum message similarity for chaining, in [0,1].
	SimilarityThreshold float64 `yaml:"similarityThreshold"`
	// SeverityWeight, CascadeWeight and TightnessWeight blend the confidence
	// signals and must sum to 1.0.
	SeverityWeight  float64 `yaml:"severityWeight"`
	CascadeWeight   float64 `yaml:"cascadeWeight"`
	TightnessWeight float64 `yaml:"tightnessWeight"`
	// TimeWindowMax is the reference span for tightness normalisation.
	// Zero defaults to 5x TimeWindow.
	TimeWindowMax time.Duration `yaml:"timeWindowMax"`
	// CorrelationWindow bounds cross-service onset lag for affected-services.
	// Zero defaults to TimeWindow.
	CorrelationWindow time.Duration `yaml:"correlationWindow"`
}

// RemediationConfig controls knowledge-base pack loading.
type RemediationConfig struct {
	// KBPath points at a YAML knowledge base pack. Empty uses the built-in table.
	KBPath string `yaml:"kbPath"`
}

// HistoryConfig controls the embedded result history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file plus environment overrides, then
// validates it. Invalid configuration fails here, before any analysis runs.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SENTINEL_RCA_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8085",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Analysis: AnalysisConfig{
			TimeWindow:          2 * time.Minute,
			SimilarityThreshold: 0.6,
			SeverityWeight:      0.4,
			CascadeWeight:       0.3,
			TightnessWeight:     0.3,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "sentinel-rca.db",
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

// Validate rejects configuration the engine cannot run on.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.TimeWindow <= 0 {
		return fmt.Errorf("analysis.timeWindow must be positive, got %s", a.TimeWindow)
	}
	if a.SimilarityThreshold < 0 || a.SimilarityThreshold > 1 {
		return fmt.Errorf("analysis.similarityThreshold must be in [0,1], got %.3f", a.SimilarityThreshold)
	}
	if a.SeverityWeight < 0 || a.CascadeWeight < 0 || a.TightnessWeight < 0 {
		return fmt.Errorf("analysis confidence weights must be non-negative")
	}
	if sum := a.SeverityWeight + a.CascadeWeight + a.TightnessWeight; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("analysis confidence weights must sum to 1.0, got %.6f", sum)
	}
	if a.TimeWindowMax < 0 {
		return fmt.Errorf("analysis.timeWindowMax must not be negative, got %s", a.TimeWindowMax)
	}
	if a.CorrelationWindow < 0 {
		return fmt.Errorf("analysis.correlationWindow must not be negative, got %s", a.CorrelationWindow)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SENTINEL_RCA_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("SENTINEL_RCA_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("SENTINEL_RCA_TIME_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Analysis.TimeWindow = d
		}
	}
	if v := os.Getenv("SENTINEL_RCA_SIMILARITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.SimilarityThreshold = f
		}
	}
	if v := os.Getenv("SENTINEL_RCA_TIME_WINDOW_MAX"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Analysis.TimeWindowMax = d
		}
	}
	if v := os.Getenv("SENTINEL_RCA_CORRELATION_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Analysis.CorrelationWindow = d
		}
	}
	if v := os.Getenv("SENTINEL_RCA_KB_PATH"); v != "" {
		cfg.Remediation.KBPath = v
	}
	if v := os.Getenv("SENTINEL_RCA_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
		cfg.History.Enabled = true
	}
	if v := os.Getenv("SENTINEL_RCA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SENTINEL_RCA_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
}
